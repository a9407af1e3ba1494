package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ZeroRate is the rate reported when the denominator is zero.
const ZeroRate Rate = "0"

// Rate is a percentage with one decimal place, e.g. "60.0".
// Older snapshots may store it as a bare JSON number.
type Rate string

// Float returns the numeric value of the rate, or 0 when it cannot be parsed.
func (r Rate) Float() float64 {
	v, err := strconv.ParseFloat(string(r), 64)
	if err != nil {
		return 0
	}
	return v
}

// UnmarshalJSON accepts both "50.0" and 50.
func (r *Rate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ZeroRate
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Rate(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid rate %s: %w", data, err)
	}
	if f == 0 {
		*r = ZeroRate
		return nil
	}
	*r = Rate(strconv.FormatFloat(f, 'f', 1, 64))
	return nil
}
