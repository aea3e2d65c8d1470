package dispatcher

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FunctionNotFound is returned verbatim, unencoded, for names outside the catalog.
const FunctionNotFound = "function call not found"

// Outcome classifies a handler result.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeFailed          Outcome = "failed"
	OutcomeUnknownFunction Outcome = "unknown_function"
)

// Result is what a handler produces: data, or a message for the transcript
// explaining why there is none.
type Result struct {
	Outcome Outcome
	Data    any
	Message string
}

// OK wraps structured data or a success message.
func OK(data any) Result {
	return Result{Outcome: OutcomeOK, Data: data}
}

// NotFound reports an empty lookup with the message the agent relays.
func NotFound(message string) Result {
	return Result{Outcome: OutcomeNotFound, Message: message}
}

// Failed reports a handled failure with a message asking the user how to proceed.
func Failed(message string) Result {
	return Result{Outcome: OutcomeFailed, Message: message}
}

// Transcript serializes the result as the JSON text embedded into the
// agent's transcript. Messages are encoded as JSON strings.
func (r Result) Transcript() (string, error) {
	switch r.Outcome {
	case OutcomeUnknownFunction:
		return FunctionNotFound, nil
	case OutcomeOK:
		return encode(r.Data)
	default:
		return encode(r.Message)
	}
}

func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}
