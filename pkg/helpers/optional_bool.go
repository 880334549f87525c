package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
)

// OptionalBool is a JSON boolean that remembers whether it was sent.
// Absent and null both leave Set false.
type OptionalBool struct {
	Set   bool
	Value bool
}

var errNotBool = errors.New("must be a boolean")

func (o *OptionalBool) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = OptionalBool{}
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return errNotBool
	}
	*o = OptionalBool{Set: true, Value: v}
	return nil
}

// Or returns the sent value, or def when nothing was sent.
func (o OptionalBool) Or(def bool) bool {
	if o.Set {
		return o.Value
	}
	return def
}
