package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Number keeps a numeric attribute exactly as it was extracted ("100 000", "27,5", 42).
// The empty Number means the attribute is absent.
type Number string

func NumberOf(value float64) Number {
	return Number(strconv.FormatFloat(value, 'f', -1, 64))
}

func (n Number) IsEmpty() bool {
	return strings.TrimSpace(string(n)) == ""
}

func (n Number) String() string {
	return string(n)
}

// Float parses the value tolerating a comma as decimal separator and any whitespace inside.
func (n Number) Float() (float64, bool) {
	cleaned := strings.Join(strings.Fields(string(n)), "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = Number(num.String())
	return nil
}
