package common

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameDesync reports that a received frame's actual length
	// disagrees with the length declared in its header. The connection
	// can no longer be trusted and must be torn down.
	ErrFrameDesync = errors.New("frame length disagrees with declared header length")

	// ErrFrameTooLarge reports that an outgoing frame would exceed
	// MaxFrameBytes. Callers must chunk large writes; nothing has been
	// sent when this is returned.
	ErrFrameTooLarge = errors.New("frame exceeds maximum frame size")

	// ErrCapacityExceeded reports that the backup returned more
	// results than the caller allowed for. Retry with a larger bound.
	ErrCapacityExceeded = errors.New("result exceeds caller capacity")

	// ErrHostAlreadyRegistered reports an attempt to register a second
	// backup host; the client currently supports exactly one.
	ErrHostAlreadyRegistered = errors.New("only one backup host is currently supported")
)

// RemoteError carries the message of an explicit error response sent
// by a backup server. The caller decides whether to retry, escalate
// or abort.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backup error: %s", e.Message)
}
