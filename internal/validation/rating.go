package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

// RatingInput accepts a rating sent either as a JSON number or as a numeric
// string. Raw holds the trimmed textual form; it is empty when the field was
// absent, null or blank.
type RatingInput struct {
	Raw      string
	isNumber bool
}

func NewRatingInput(raw string) RatingInput {
	return RatingInput{Raw: strings.TrimSpace(raw)}
}

func (r *RatingInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = RatingInput{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RatingInput{Raw: strings.TrimSpace(s)}
	default:
		*r = RatingInput{Raw: string(data), isNumber: len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9'))}
	}
	return nil
}

func (r RatingInput) MarshalJSON() ([]byte, error) {
	if r.Raw == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.Atoi(r.Raw); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(r.Raw)
}

// Int parses the rating. JSON numbers with an integral value such as 4.0
// are accepted; fractional numbers and non-numeric text are not.
func (r RatingInput) Int() (int, bool) {
	if n, err := strconv.Atoi(r.Raw); err == nil {
		return n, true
	}
	if !r.isNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(r.Raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func InRatingRange(n int) bool {
	return n >= MinRating && n <= MaxRating
}

// Truncated is the lenient form used for stored records: any numeric value,
// including fractional numbers and numeric strings, is truncated toward zero.
func (r RatingInput) Truncated() (int, bool) {
	if n, ok := r.Int(); ok {
		return n, true
	}
	f, err := strconv.ParseFloat(r.Raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
