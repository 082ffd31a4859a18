package batch

import (
	"bytes"
	"encoding/json"

	"semgrain/internal/grain"
)

// Outcome is the result of processing one image: exactly one of Summary
// and Err is set.
type Outcome struct {
	Summary *grain.Summary
	Err     error
}

// OK reports whether the image was processed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Entry is one image's record in the run summary.
type Entry struct {
	Summary *grain.Summary
	Error   string
}

// MarshalJSON encodes the summary fields, or {"error": msg} for a failed image.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Summary == nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{e.Error})
	}
	return json.Marshal(e.Summary)
}

// RunSummary maps each processed file name to its entry, remembering the
// order images were processed in.
type RunSummary struct {
	names   []string
	entries map[string]Entry
}

// NewRunSummary returns an empty summary.
func NewRunSummary() *RunSummary {
	return &RunSummary{entries: make(map[string]Entry)}
}

// Record stores the outcome for name. Recording the same name twice
// replaces the earlier entry but keeps its position.
func (s *RunSummary) Record(name string, o Outcome) {
	e := Entry{Summary: o.Summary}
	if o.Err != nil {
		e = Entry{Error: o.Err.Error()}
	}
	if _, ok := s.entries[name]; !ok {
		s.names = append(s.names, name)
	}
	s.entries[name] = e
}

// Get returns the entry for name.
func (s *RunSummary) Get(name string) (Entry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// Names returns the recorded file names in processing order.
func (s *RunSummary) Names() []string {
	return append([]string(nil), s.names...)
}

// Len is the number of recorded images.
func (s *RunSummary) Len() int {
	return len(s.names)
}

// Failed is the number of images recorded with an error.
func (s *RunSummary) Failed() int {
	n := 0
	for _, e := range s.entries {
		if e.Summary == nil {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the summary as a JSON object keyed by file name, in
// processing order.
func (s *RunSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.entries[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
