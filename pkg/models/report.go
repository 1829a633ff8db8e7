package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

const (
	ReportKeyRigID         = "rig_id"
	ReportKeyTimestamp     = "timestamp"
	ReportKeyHostname      = "hostname"
	ReportKeyIPAddress     = "ip_address"
	ReportKeyCPUPercent    = "cpu_percent"
	ReportKeyMemoryPercent = "memory_percent"
	ReportKeyDiskPercent   = "disk_percent"
)

// Report is a heartbeat as sent by an agent: an arbitrary JSON object of which
// only a handful of keys are interpreted.
type Report map[string]any

// DecodeReport parses a JSON object, keeping numbers as json.Number so that
// the stored blob round-trips without float formatting drift.
func DecodeReport(data []byte) (Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var report Report
	if err := dec.Decode(&report); err != nil {
		return nil, err
	}
	if report == nil {
		return nil, errors.New("report must be a JSON object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after report")
	}
	return report, nil
}

// String returns the value under key when it is a string, nil otherwise.
func (r Report) String(key string) *string {
	if s, ok := r[key].(string); ok {
		return &s
	}
	return nil
}

// Float returns the value under key as a float64 when it is numeric or a
// numeric string, nil otherwise.
func (r Report) Float(key string) *float64 {
	var f float64
	switch v := r[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}

// RigID returns the rig id and whether it is a non-empty string.
func (r Report) RigID() (string, bool) {
	s := r.String(ReportKeyRigID)
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}
