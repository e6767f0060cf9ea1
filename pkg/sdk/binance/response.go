package binance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Response is a decoded success body. It is passed to the caller as is;
// numbers are kept as json.Number so nothing is reformatted.
type Response map[string]any

// String returns the field rendered as text, or "" when absent or null.
func (r Response) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func decodeResponse(body []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out Response
	if err := dec.Decode(&out); err != nil {
		return nil, &DecodeError{Body: string(body), Cause: err}
	}
	if out == nil {
		out = Response{}
	}
	return out, nil
}
