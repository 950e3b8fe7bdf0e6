package tracker

// IRPCTracker assigns ids to outstanding linearizable RPCs and tracks
// which of them have completed.
type IRPCTracker interface {
	// NewRPCID returns a fresh, strictly increasing RPC id, or 0 if
	// the window is full. A 0 return is flow control, not an error:
	// the caller must wait for an outstanding RPC to finish and try
	// again. A retry of a lost RPC must reuse its original id.
	NewRPCID() uint64

	// RPCFinished marks the RPC with the given id as completed. The id
	// must have been issued by NewRPCID and not yet finished; anything
	// else returns ErrTrackerMisuse and leaves the window untouched.
	RPCFinished(id uint64) error

	// AckID returns the highest id known finished together with every
	// id below it. Ids finished out of order above a still-pending id
	// are not covered until the gap closes.
	AckID() uint64
}
