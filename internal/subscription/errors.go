package subscription

import "errors"

// ErrTokenGenerationExhausted is returned when every insert attempt of a new
// token was rejected by a uniqueness constraint.
var ErrTokenGenerationExhausted = errors.New("feed token generation exhausted")

// ValidationError reports a caller mistake; its message is safe to return
// to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
