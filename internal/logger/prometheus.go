package logger

import (
	"github.com/maxaizer/hr-matcher/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const errorTypeUnknown = "unknown"

var knownErrorTypes = map[string]struct{}{
	ErrorTypeDb:     {},
	ErrorTypeAiApi:  {},
	ErrorTypeConfig: {},
}

// errorsHook counts logged errors per error_type. Types outside the known set are
// reported as unknown so that a typo at a call site cannot grow the label set.
type errorsHook struct{}

func (h *errorsHook) Fire(entry *log.Entry) error {
	metrics.ErrorsCounter.WithLabelValues(errorTypeOf(entry)).Inc()
	return nil
}

func (h *errorsHook) Levels() []log.Level {
	return []log.Level{log.ErrorLevel, log.FatalLevel, log.PanicLevel}
}

func errorTypeOf(entry *log.Entry) string {
	errorType, _ := entry.Data[ErrorTypeField].(string)
	if _, ok := knownErrorTypes[errorType]; !ok {
		return errorTypeUnknown
	}
	return errorType
}

func addPrometheusHook() {
	log.AddHook(&errorsHook{})
}
