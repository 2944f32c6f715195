package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry LogEntry
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunPipeline  RunPipelineReport  `json:"run_pipeline_report"`
	InvalidInput InvalidInputReport `json:"invalid_input_report"`
	SpawnFailure SpawnFailureReport `json:"spawn_failure_report"`
}

// Update adds a log entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch eventType := stringField(le, FieldEvent); eventType {
	case EventRunPipeline:
		r.RunPipeline.update(le)
	case EventInvalidInput:
		r.InvalidInput.update(le)
	case EventSpawnFailure:
		r.SpawnFailure.update(le)
	default:
		r.InvalidEntries.Increment(eventType)
	}
}

type RunPipelineReport struct {
	Count     int `json:"count"`
	InProcess int `json:"in_process"`
	// Name of each stage's command.
	CommandNames StrCounter `json:"command_names"`
	// Exit status of the terminal stage.
	Statuses StrCounter `json:"statuses"`
}

func (r *RunPipelineReport) update(le *LogEntry) {
	r.Count++
	if le.GetFields()["in_process"].GetBoolValue() {
		r.InProcess++
	}
	for _, stage := range le.GetFields()["stages"].GetListValue().GetValues() {
		r.CommandNames.Increment(stage.GetStringValue())
	}
	r.Statuses.Increment(fmt.Sprintf("%d", int(le.GetFields()["status"].GetNumberValue())))
}

type InvalidInputReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *InvalidInputReport) update(le *LogEntry) {
	r.Errors.Increment(stringField(le, "error"))
}

type SpawnFailureReport struct {
	Count  int          `json:"count"`
	Stages *PathCounter `json:"stages"`
}

func (r *SpawnFailureReport) update(le *LogEntry) {
	if r.Stages == nil {
		r.Stages = NewPathCounter("stage", "error")
	}
	r.Count++
	r.Stages.Increment(stringField(le, "stage"), stringField(le, "error"))
}

func stringField(le *LogEntry, name string) string {
	return le.GetFields()[name].GetStringValue()
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings, one per column.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
