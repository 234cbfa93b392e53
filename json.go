package debug

import (
	"bytes"
	"encoding/json"
)

// ErrorResponse is the JSON shape of an error built by this package.
// The wrapped error chain is excluded; only its message is kept.
type ErrorResponse struct {
	// Code is the error code, omitted when empty.
	Code string `json:"code,omitempty"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Cause is the message of the wrapped error, if any.
	Cause string `json:"cause,omitempty"`

	// Origin is present for origin-carrying errors.
	Origin *OriginResponse `json:"origin,omitempty"`
}

// OriginResponse is the JSON shape of an Origin.
type OriginResponse struct {
	Call string `json:"call"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// ToJSON converts any error to an ErrorResponse suitable for structured
// logs. Returns nil if err is nil.
//
// For errors built by this package the code, message and cause are taken
// from the outermost BaseError in the chain and the origin from the
// outermost origin-carrying error. Other errors only contribute their
// message.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	resp := &ErrorResponse{
		Code:    string(GetCode(err)),
		Message: err.Error(),
	}

	var base interface {
		Message() string
		Unwrap() error
	}
	if As(err, &base) {
		resp.Message = base.Message()
		if cause := base.Unwrap(); cause != nil {
			resp.Cause = cause.Error()
		}
	}

	if o, ok := OriginOf(err); ok {
		resp.Origin = originResponse(o)
	}

	return resp
}

func originResponse(o Origin) *OriginResponse {
	return &OriginResponse{Call: o.call, File: o.file, Line: o.line}
}

func (e *BaseError) response() *ErrorResponse {
	resp := &ErrorResponse{
		Code:    string(e.code),
		Message: e.message,
	}
	if e.cause != nil {
		resp.Cause = e.cause.Error()
	}
	return resp
}

// MarshalJSON implements json.Marshaler.
func (e *BaseError) MarshalJSON() ([]byte, error) {
	return marshalResponse(e.response())
}

// MarshalJSON implements json.Marshaler.
func (e *OriginError) MarshalJSON() ([]byte, error) {
	resp := e.response()
	resp.Origin = originResponse(e.origin)
	return marshalResponse(resp)
}

// MarshalJSON implements json.Marshaler.
func (o Origin) MarshalJSON() ([]byte, error) {
	return marshalResponse(originResponse(o))
}

// marshalResponse encodes v without HTML escaping.
func marshalResponse(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, &BaseError{
			code:    CodeInternal,
			message: "failed to marshal error response",
			cause:   err,
		}
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
