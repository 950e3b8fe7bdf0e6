package tracker

import (
	"errors"
	"fmt"
)

// DefaultWindowSize is the number of RPC ids that may be outstanding
// at once when no explicit window size is given.
const DefaultWindowSize = 512

// ErrTrackerMisuse is returned when RPCFinished is called with an id
// that is not currently pending. This indicates a caller bug (double
// finish, or an id that was never issued), not a runtime condition.
var ErrTrackerMisuse = errors.New("rpc id is not pending")

type rpcTracker struct {
	// finished[id % windowSize] is meaningful only for ids in
	// [firstMissing, nextRPCID). A slot is reused only after
	// firstMissing has advanced past its previous occupant.
	finished []bool

	// firstMissing is the smallest id not yet known finished. Every
	// id below it is finished.
	firstMissing uint64

	// nextRPCID is the id the next NewRPCID call will hand out. Ids
	// start at 1; 0 is reserved as the window-full sentinel.
	nextRPCID uint64
}

// NewRPCTracker creates a tracker with the given window size. A
// windowSize of 0 or less selects DefaultWindowSize.
func NewRPCTracker(windowSize int) IRPCTracker {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &rpcTracker{
		finished:     make([]bool, windowSize),
		firstMissing: 1,
		nextRPCID:    1,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (t *rpcTracker) NewRPCID() uint64 {
	if t.firstMissing+uint64(len(t.finished)) == t.nextRPCID {
		// Window full: the oldest RPC is too far behind.
		return 0
	}
	t.finished[t.nextRPCID%uint64(len(t.finished))] = false
	id := t.nextRPCID
	t.nextRPCID++
	return id
}

func (t *rpcTracker) RPCFinished(id uint64) error {
	if id < t.firstMissing || id >= t.nextRPCID {
		return fmt.Errorf("finish rpc %d (window [%d, %d)): %w",
			id, t.firstMissing, t.nextRPCID, ErrTrackerMisuse)
	}

	windowSize := uint64(len(t.finished))
	if t.finished[id%windowSize] {
		return fmt.Errorf("finish rpc %d twice: %w", id, ErrTrackerMisuse)
	}
	t.finished[id%windowSize] = true

	// Advance the watermark through any contiguous run of already
	// finished ids. This is what tolerates out-of-order completion.
	if id == t.firstMissing {
		t.firstMissing++
		for t.firstMissing < t.nextRPCID && t.finished[t.firstMissing%windowSize] {
			t.firstMissing++
		}
	}
	return nil
}

func (t *rpcTracker) AckID() uint64 {
	return t.firstMissing - 1
}
