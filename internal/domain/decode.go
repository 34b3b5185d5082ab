package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"barbershop/internal/validation"
)

// Records written by older clients may hold numbers or booleans where text
// is expected and a rating sent as a string. Decoding accepts those shapes
// so a single such record does not make its collection unreadable.

type storedOrder struct {
	ID        int             `json:"id"`
	Service   json.RawMessage `json:"service"`
	Date      json.RawMessage `json:"date"`
	Time      json.RawMessage `json:"time"`
	Name      json.RawMessage `json:"name"`
	Phone     json.RawMessage `json:"phone"`
	Timestamp json.RawMessage `json:"timestamp"`
	Status    json.RawMessage `json:"status"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var s storedOrder
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	decoded := Order{ID: s.ID}
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"service", s.Service, &decoded.Service},
		{"date", s.Date, &decoded.Date},
		{"time", s.Time, &decoded.Time},
		{"name", s.Name, &decoded.Name},
		{"phone", s.Phone, &decoded.Phone},
		{"timestamp", s.Timestamp, &decoded.Timestamp},
		{"status", s.Status, &decoded.Status},
	}
	for _, f := range fields {
		text, err := decodeText(f.raw)
		if err != nil {
			return fmt.Errorf("order %d field %s: %w", s.ID, f.name, err)
		}
		*f.dst = text
	}

	*o = decoded
	return nil
}

type storedReview struct {
	ID       int             `json:"id"`
	Name     json.RawMessage `json:"name"`
	Rating   json.RawMessage `json:"rating"`
	Service  json.RawMessage `json:"service"`
	Text     json.RawMessage `json:"text"`
	Date     json.RawMessage `json:"date"`
	Approved json.RawMessage `json:"approved"`
}

func (r *Review) UnmarshalJSON(data []byte) error {
	var s storedReview
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	decoded := Review{ID: s.ID}
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"name", s.Name, &decoded.Name},
		{"service", s.Service, &decoded.Service},
		{"text", s.Text, &decoded.Text},
		{"date", s.Date, &decoded.Date},
	}
	for _, f := range fields {
		text, err := decodeText(f.raw)
		if err != nil {
			return fmt.Errorf("review %d field %s: %w", s.ID, f.name, err)
		}
		*f.dst = text
	}

	if len(s.Rating) > 0 {
		var rating validation.RatingInput
		if err := json.Unmarshal(s.Rating, &rating); err != nil {
			return fmt.Errorf("review %d field rating: %w", s.ID, err)
		}
		if rating.Raw != "" {
			n, ok := rating.Truncated()
			if !ok {
				return fmt.Errorf("review %d field rating: %q is not a number", s.ID, rating.Raw)
			}
			decoded.Rating = n
		}
	}

	// Anything other than a boolean is treated as not approved.
	switch string(bytes.TrimSpace(s.Approved)) {
	case "true":
		approved := true
		decoded.Approved = &approved
	case "false":
		approved := false
		decoded.Approved = &approved
	}

	*r = decoded
	return nil
}

// decodeText returns strings as is and the literal text of numbers and
// booleans. Absent and null values decode to the empty string.
func decodeText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("expected text, got %s", raw)
	default:
		return string(raw), nil
	}
}
