package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownBucket labels records without a short generation label.
const UnknownBucket = "Unknown"

// Bucket is one generation label and the number of records carrying it.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the generation distribution in first-seen order.
type Summary []Bucket

// Summarize counts records per short generation label.
func Summarize(records []Record) Summary {
	var summary Summary
	index := make(map[string]int)
	for _, rec := range records {
		label := rec.GenerationShort
		if label == "" {
			label = UnknownBucket
		}
		if i, ok := index[label]; ok {
			summary[i].Count++
			continue
		}
		index[label] = len(summary)
		summary = append(summary, Bucket{Label: label, Count: 1})
	}
	return summary
}

// Count returns the count for label, or zero.
func (s Summary) Count(label string) int {
	for _, b := range s {
		if b.Label == label {
			return b.Count
		}
	}
	return 0
}

// Total returns the sum of all buckets.
func (s Summary) Total() int {
	total := 0
	for _, b := range s {
		total += b.Count
	}
	return total
}

func (s Summary) String() string {
	parts := make([]string, len(s))
	for i, b := range s {
		parts[i] = fmt.Sprintf("%s=%d", b.Label, b.Count)
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes the summary as an object keeping bucket order.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, b := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", b.Count)
	}
	buf.WriteByte('}')
	return []byte(buf.String()), nil
}

// UnmarshalJSON decodes an object written by MarshalJSON, keeping key order.
func (s *Summary) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("summary: expected object")
	}
	var out Summary
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		out = append(out, Bucket{Label: keyTok.(string), Count: count})
	}
	*s = out
	return nil
}
