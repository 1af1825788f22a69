package mcu

import (
	"fmt"
	"strconv"
	"strings"
)

// RecordKind classifies one line of the firmware debug console
type RecordKind int

const (
	KindInfo   RecordKind = iota // any other line
	KindStatus                   // [FAN] t=.. raw=.. duty=.. ON|OFF
	KindEvent                    // [EVENT] NAME seq=.. v1=.. v2=..
	KindFatal                    // [FATAL] message
)

func (k RecordKind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindEvent:
		return "event"
	case KindFatal:
		return "fatal"
	default:
		return "info"
	}
}

// Status is one control loop iteration as reported by the firmware
type Status struct {
	Temperature uint16
	Raw         uint16
	Duty        uint8
	On          bool
}

// Event is one entry of the firmware event ring dump
type Event struct {
	Name   string
	Seq    uint32
	Value1 uint32
	Value2 uint32
}

// Record is a parsed console line
type Record struct {
	Kind   RecordKind
	Line   string
	Status Status
	Event  Event
}

const (
	statusPrefix = "[FAN] "
	eventPrefix  = "[EVENT] "
	fatalPrefix  = "[FATAL] "
)

// ParseLine classifies and decodes one console line.
// Malformed status or event lines return an error along with a KindInfo record.
func ParseLine(line string) (Record, error) {
	line = strings.TrimRight(line, "\r\n")
	rec := Record{Kind: KindInfo, Line: line}

	switch {
	case strings.HasPrefix(line, statusPrefix) && strings.Contains(line, "t="):
		st, err := parseStatus(strings.TrimPrefix(line, statusPrefix))
		if err != nil {
			return rec, err
		}
		rec.Kind, rec.Status = KindStatus, st
	case strings.HasPrefix(line, eventPrefix) && !strings.HasPrefix(line, eventPrefix+"==="):
		evt, err := parseEvent(strings.TrimPrefix(line, eventPrefix))
		if err != nil {
			return rec, err
		}
		rec.Kind, rec.Event = KindEvent, evt
	case strings.HasPrefix(line, fatalPrefix):
		rec.Kind = KindFatal
	}
	return rec, nil
}

func parseStatus(s string) (Status, error) {
	var st Status
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return st, fmt.Errorf("status line: expected 4 fields, got %d", len(fields))
	}

	kv, err := keyValues(fields[:3])
	if err != nil {
		return st, fmt.Errorf("status line: %w", err)
	}
	t, err := parseUint(kv, "t", 16)
	if err != nil {
		return st, err
	}
	raw, err := parseUint(kv, "raw", 16)
	if err != nil {
		return st, err
	}
	duty, err := parseUint(kv, "duty", 8)
	if err != nil {
		return st, err
	}

	switch fields[3] {
	case "ON":
		st.On = true
	case "OFF":
	default:
		return st, fmt.Errorf("status line: unknown state %q", fields[3])
	}
	st.Temperature, st.Raw, st.Duty = uint16(t), uint16(raw), uint8(duty)
	return st, nil
}

func parseEvent(s string) (Event, error) {
	var evt Event
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return evt, fmt.Errorf("event line: expected 4 fields, got %d", len(fields))
	}

	kv, err := keyValues(fields[1:])
	if err != nil {
		return evt, fmt.Errorf("event line: %w", err)
	}
	seq, err := parseUint(kv, "seq", 32)
	if err != nil {
		return evt, err
	}
	v1, err := parseUint(kv, "v1", 32)
	if err != nil {
		return evt, err
	}
	v2, err := parseUint(kv, "v2", 32)
	if err != nil {
		return evt, err
	}

	evt.Name = strings.TrimSuffix(fields[0], "!")
	evt.Seq, evt.Value1, evt.Value2 = uint32(seq), uint32(v1), uint32(v2)
	return evt, nil
}

func keyValues(fields []string) (map[string]string, error) {
	kv := make(map[string]string, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("malformed field %q", f)
		}
		kv[k] = v
	}
	return kv, nil
}

func parseUint(kv map[string]string, key string, bits int) (uint64, error) {
	v, ok := kv[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", key, err)
	}
	return n, nil
}
