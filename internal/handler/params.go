package handler

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var errInvalidID = errors.New("invalid identifier")

func parsePositiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// IDList accepts a JSON array whose elements are identifier strings or
// integral numbers. Other element types are kept as empty strings so that
// validation reports them per index.
type IDList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *IDList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("abstractIds must be an array")
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out[i] = s
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err == nil {
			if _, err := n.Int64(); err == nil {
				out[i] = n.String()
			}
		}
	}
	*l = out
	return nil
}
