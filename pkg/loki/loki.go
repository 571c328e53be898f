package loki

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

type Logger interface {
	Error(msg string, args ...any)
}

type Config struct {

	// Url of the loki push endpoint, e.g. https://example-prod.grafana.net/loki/api/v1/push
	Url string `validate:"required,url"`

	// TenantKey and TenantValue set a tenant header for multi-tenant setups. Optional.
	TenantKey   string
	TenantValue string

	// BatchMaxSize is the maximum number of log lines that are sent in one request
	BatchMaxSize int `validate:"gte=1"`

	// BatchMaxWait is the maximum time to wait before sending a request
	BatchMaxWait time.Duration `validate:"gte=1"`

	// BufferSize bounds entries waiting for the sender; entries beyond it are dropped.
	BufferSize int `validate:"gte=1"`

	// Labels that are added to every stream
	Labels map[string]string

	// Username and Password enable basic authentication when both are set.
	Username string
	Password string
}

func (cfg *Config) setDefaults() {
	if cfg.BatchMaxSize == 0 {
		cfg.BatchMaxSize = 1000
	}
	if cfg.BatchMaxWait == 0 {
		cfg.BatchMaxWait = 5 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 4096
	}
	if cfg.Labels == nil {
		cfg.Labels = map[string]string{}
	}
}

type LogEntry struct {
	Level   string            `json:"level"`
	Message string            `json:"msg"`
	Caller  string            `json:"caller,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type pushRequest struct {
	Streams []stream `json:"streams"`
}

type stream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

// Pusher batches log entries and ships them to loki, one stream per level.
type Pusher struct {
	config  Config
	client  *http.Client
	logger  Logger
	entries chan LogEntry
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64

	// batch is owned by the run goroutine
	batch map[string][][2]string
	size  int
}

func New(ctx context.Context, cfg Config, logger Logger) (*Pusher, error) {

	cfg.setDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}

	p := &Pusher{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		entries: make(chan LogEntry, cfg.BufferSize),
		done:    make(chan struct{}),
		batch:   map[string][][2]string{},
	}

	p.wg.Add(1)
	go p.run(ctx)
	return p, nil
}

// Push queues the entry without blocking. When the buffer is full the entry is dropped.
func (p *Pusher) Push(e LogEntry) {
	select {
	case p.entries <- e:
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns the number of entries lost to a full buffer.
func (p *Pusher) Dropped() int64 {
	return p.dropped.Load()
}

// Stop flushes pending entries and stops the pusher.
func (p *Pusher) Stop() {
	select {
	case <-p.done:
		return
	default:
		close(p.done)
	}
	p.wg.Wait()
}

func (p *Pusher) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.BatchMaxWait)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.drain()
			p.flush(context.Background())
			return
		case <-p.done:
			p.drain()
			p.flush(context.Background())
			return
		case entry := <-p.entries:
			p.add(entry)
			if p.size >= p.config.BatchMaxSize {
				p.flush(ctx)
			}
		case <-ticker.C:
			p.flush(ctx)
		}
	}
}

func (p *Pusher) drain() {
	for {
		select {
		case entry := <-p.entries:
			p.add(entry)
		default:
			return
		}
	}
}

func (p *Pusher) add(entry LogEntry) {
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	p.batch[entry.Level] = append(p.batch[entry.Level], [2]string{timestamp, string(line)})
	p.size++
}

func (p *Pusher) flush(ctx context.Context) {
	if p.size == 0 {
		return
	}
	if err := p.send(ctx, p.streams()); err != nil {
		p.logger.Error("failed to send logs", "error", err, "lines", p.size)
	}
	p.batch = map[string][][2]string{}
	p.size = 0
}

func (p *Pusher) streams() []stream {
	streams := make([]stream, 0, len(p.batch))
	for level, values := range p.batch {
		labels := make(map[string]string, len(p.config.Labels)+1)
		for k, v := range p.config.Labels {
			labels[k] = v
		}
		labels["level"] = level
		streams = append(streams, stream{Stream: labels, Values: values})
	}
	return streams
}

func (p *Pusher) send(ctx context.Context, streams []stream) error {
	buf := &bytes.Buffer{}
	gz := gzip.NewWriter(buf)

	if err := json.NewEncoder(gz).Encode(pushRequest{Streams: streams}); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Url, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")
	if p.config.TenantKey != "" {
		req.Header.Set(p.config.TenantKey, p.config.TenantValue)
	}
	if p.config.Username != "" && p.config.Password != "" {
		req.SetBasicAuth(p.config.Username, p.config.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received unexpected response code from loki: %s, body: %s", resp.Status, string(body))
	}
	return nil
}
