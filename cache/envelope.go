package cache

import (
	"context"
	"encoding/json"
)

// Envelope is the response of a fetch.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	ErrMsg  string `json:"errMsg,omitempty"`
	Content Value  `json:"content"`
}

// FetchFunc performs the network side of a request.
type FetchFunc func(ctx context.Context) (*Envelope, error)

// Succeeded reports whether the envelope carries a successful response.
func (e *Envelope) Succeeded() bool {
	return e != nil && (e.Code == 0 || e.Code == 200)
}

// FailureMessage returns the message to report for a failed envelope.
func (e *Envelope) FailureMessage() string {
	if e == nil || e.Message == "" {
		return MessageRequestFailed
	}
	return e.Message
}

// DecodeEnvelope parses a JSON response envelope. The content of an
// unsuccessful envelope is dropped.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if !env.Succeeded() {
		env.Content = Null()
	}
	return &env, nil
}

// SuccessEnvelope wraps content in a successful envelope.
func SuccessEnvelope(content Value) *Envelope {
	return &Envelope{Code: 200, Content: content}
}
