package orchestrator

import "errors"

// ErrInvalidInput rejects a request before any pipeline work happens:
// missing session id, empty turn list, unknown roles, or a conversation
// that does not end with a user turn.
var ErrInvalidInput = errors.New("invalid request input")
