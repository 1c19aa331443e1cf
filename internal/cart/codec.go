package cart

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexString decodes a JSON string or number into its string form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// booleans and objects carry no usable id
		*f = ""
		return nil
	}
	*f = flexString(n.String())
	return nil
}

// flexNumber decodes a finite JSON number or numeric string. Anything else
// leaves it invalid without failing the surrounding object.
type flexNumber struct {
	value float64
	valid bool
}

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	*f = flexNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var v float64
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		v = parsed
	} else if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.value = v
	f.valid = true
	return nil
}

func (f flexNumber) or(fallback float64) float64 {
	if !f.valid {
		return fallback
	}
	return f.value
}

// storedLine is the tolerant shape of one persisted record.
type storedLine struct {
	ID        flexString `json:"id"`
	Title     string     `json:"title"`
	Price     flexNumber `json:"price"`
	Thumbnail string     `json:"thumbnail"`
	Stock     flexNumber `json:"stock"`
	Quantity  flexNumber `json:"quantity"`
}

// decodeLines parses a persisted value. ok is false when the value is not a
// JSON array; records that cannot be repaired are dropped.
func decodeLines(raw string) (lines []Line, dropped int, ok bool) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, 0, false
	}
	if records == nil {
		// the literal null is not a sequence
		return nil, 0, false
	}

	seen := make(map[string]struct{}, len(records))
	lines = make([]Line, 0, len(records))
	for _, rec := range records {
		var stored storedLine
		if err := json.Unmarshal(rec, &stored); err != nil {
			dropped++
			continue
		}
		line, valid := stored.toLine()
		if !valid {
			dropped++
			continue
		}
		if _, dup := seen[line.ID]; dup {
			dropped++
			continue
		}
		seen[line.ID] = struct{}{}
		lines = append(lines, line)
	}
	return lines, dropped, true
}

func (s storedLine) toLine() (Line, bool) {
	id := strings.TrimSpace(string(s.ID))
	if id == "" {
		return Line{}, false
	}
	title := s.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	stock := normalizeStock(truncate(s.Stock.or(DefaultStock)))
	return Line{
		ID:        id,
		Title:     title,
		Price:     normalizePrice(s.Price.or(0)),
		Thumbnail: s.Thumbnail,
		Stock:     stock,
		Quantity:  clamp(truncate(s.Quantity.or(1)), 1, stock),
	}, true
}

func encodeLines(s *Snapshot) (string, error) {
	lines := s.Lines()
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
