package respond

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Number accepts a JSON number or a JSON string and keeps its text, so
// validation can report exactly what was sent.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*n = Number(s)

		return nil
	}

	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number or a string: %w", err)
	}

	*n = Number(num)

	return nil
}

func (n Number) String() string { return string(n) }
