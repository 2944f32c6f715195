package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Event types written to the log.
const (
	EventRunPipeline  = "run_pipeline"
	EventInvalidInput = "invalid_input"
	EventSpawnFailure = "spawn_failure"
)

// Field names shared by all events.
const (
	FieldEvent     = "event"
	FieldTimestamp = "timestamp_micros"
	FieldLine      = "line"
)

// LogEntry is a single event. Entries are free-form structs so new fields
// don't need a schema change.
type LogEntry = structpb.Struct

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interpreter events.
type Logger struct {
	Record LogRecorder

	now func() time.Time
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) timestamp() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

func (l *Logger) record(eventType, line string, fields map[string]interface{}) error {
	if l == nil || l.Record == nil {
		return nil
	}

	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldEvent] = eventType
	fields[FieldLine] = validUTF8(line)
	fields[FieldTimestamp] = l.timestamp().UnixNano() / int64(time.Microsecond)

	le, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	return l.Record(le)
}

// RunPipeline records a pipeline that ran to completion.
func (l *Logger) RunPipeline(line string, stages []string, status int, inProcess bool, duration time.Duration) error {
	names := make([]interface{}, 0, len(stages))
	for _, s := range stages {
		names = append(names, validUTF8(s))
	}

	return l.record(EventRunPipeline, line, map[string]interface{}{
		"stages":      names,
		"status":      status,
		"in_process":  inProcess,
		"duration_ms": float64(duration.Microseconds()) / 1000.0,
	})
}

// InvalidInput records a line that couldn't be parsed.
func (l *Logger) InvalidInput(line string, err error) error {
	return l.record(EventInvalidInput, line, map[string]interface{}{
		"error": validUTF8(err.Error()),
	})
}

// SpawnFailure records a stage whose process couldn't be created.
func (l *Logger) SpawnFailure(line, stage string, err error) error {
	return l.record(EventSpawnFailure, line, map[string]interface{}{
		"stage": validUTF8(stage),
		"error": validUTF8(err.Error()),
	})
}

// validUTF8 replaces invalid bytes, which structpb refuses to encode.
func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
