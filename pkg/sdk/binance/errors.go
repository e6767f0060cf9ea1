package binance

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CodeUnknown marks an ExchangeError whose body was not a {code,msg} object.
const CodeUnknown int64 = 0

// ErrMissingParam is returned before any request is sent when a parameter
// the chosen order type requires is absent.
var ErrMissingParam = errors.New("missing required parameter")

// ExchangeError means the exchange received the request and rejected it.
type ExchangeError struct {
	Code    int64
	Message string
	Status  int
}

func (e *ExchangeError) Error() string {
	if e.Code == CodeUnknown {
		return fmt.Sprintf("binance api error (http %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("binance api error: %d - %s", e.Code, e.Message)
}

// TransportError means the request never completed: DNS, connect, TLS or
// timeout. It is the only bucket that is safe to retry.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("binance transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// DecodeError means a 2xx body could not be decoded as a JSON object.
type DecodeError struct {
	Body  string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode binance response: %v (body: %s)", e.Cause, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// IsRetryable reports whether err belongs to the transport bucket.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

type apiErrorBody struct {
	Code *int64  `json:"code"`
	Msg  *string `json:"msg"`
}

// parseErrorBody turns a non-2xx body into an ExchangeError: the structured
// {code,msg} form when present, the raw text otherwise.
func parseErrorBody(status int, body []byte) *ExchangeError {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Msg != nil {
		code := CodeUnknown
		if parsed.Code != nil {
			code = *parsed.Code
		}
		return &ExchangeError{Code: code, Message: *parsed.Msg, Status: status}
	}
	return &ExchangeError{
		Code:    CodeUnknown,
		Message: strings.TrimSpace(string(body)),
		Status:  status,
	}
}
