package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OverallKey holds the points summarising the whole transcript.
const OverallKey = "overall"

type Section struct {
	Key    string
	Points []string
}

// Result maps section keys to bullet points. Keys keep insertion order, which
// is also display order, including when marshalled to JSON.
type Result struct {
	sections []Section
}

func (r *Result) Set(key string, points []string) {
	for i := range r.sections {
		if r.sections[i].Key == key {
			r.sections[i].Points = points
			return
		}
	}
	r.sections = append(r.sections, Section{Key: key, Points: points})
}

func (r Result) Get(key string) ([]string, bool) {
	for _, s := range r.sections {
		if s.Key == key {
			return s.Points, true
		}
	}
	return nil, false
}

func (r Result) Sections() []Section {
	return append([]Section(nil), r.sections...)
}

func (r Result) Len() int {
	return len(r.sections)
}

func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, s := range r.sections {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(s.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", s.Key, err)
		}

		points := s.Points
		if points == nil {
			points = []string{}
		}
		value, err := json.Marshal(points)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal points for %q: %w", s.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
