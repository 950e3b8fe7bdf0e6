package server

import (
	"github.com/jcarreira/ramcloud/lib/segment"
)

// ISegmentStore is the storage backend of a backup server. It keeps
// replica segments through their lifecycle: open (created by the first
// write), written, committed (sealed, durable), freed (gone).
//
// Implementations must be safe for concurrent use; the server handles
// separate client connections concurrently.
type ISegmentStore interface {
	// Write places data at offset in an open segment, creating the
	// segment if this is its first write. Writing to a committed
	// segment or past the maximum segment size is an error.
	Write(segmentID uint64, offset uint32, data []byte) error

	// Commit seals a written segment as durable. Committing an
	// unknown segment is an error; committing a committed segment is
	// a no-op (the transition is one-way, a lost-response retry must
	// not fail).
	Commit(segmentID uint64) error

	// Free releases the storage of a written or committed segment.
	// Freeing an unknown segment is an error.
	Free(segmentID uint64) error

	// List returns the ids of all segments the store holds, in
	// server-defined order.
	List() ([]uint64, error)

	// Metadata returns the per-object recovery metadata of a
	// committed segment.
	Metadata(segmentID uint64) ([]segment.Metadata, error)

	// Retrieve returns the full content of a committed segment.
	Retrieve(segmentID uint64) ([]byte, error)

	// Close releases the store's resources.
	Close() error
}
