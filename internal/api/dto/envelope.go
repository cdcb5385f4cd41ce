package dto

import "time"

// Envelope is the uniform boundary wrapper: every response carries it.
// Failure envelopes always have a human-readable message and omit data.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// NewSuccess wraps data in a success envelope.
func NewSuccess(data interface{}, requestID string) Envelope {
	return Envelope{
		Success:   true,
		Message:   "Operation successful",
		Data:      data,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewSuccessMessage builds a success envelope with no data payload.
func NewSuccessMessage(message, requestID string) Envelope {
	return Envelope{
		Success:   true,
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewFailure builds a failure envelope.
func NewFailure(message, requestID string) Envelope {
	return Envelope{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}
