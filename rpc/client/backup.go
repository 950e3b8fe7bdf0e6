package client

import (
	"fmt"

	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/transport"
)

// BackupHost is the client for one backup server. Every operation is
// one blocking request/response round trip over the host's transport.
//
// A host exclusively owns its transport: the creator hands it over and
// must not touch it afterwards; Close releases it. The host keeps no
// state between calls and does no internal locking; callers driving it
// from multiple goroutines must keep to one request in flight.
type BackupHost struct {
	transport transport.ITransport
}

// NewBackupHost creates a host on top of a connected transport, taking
// exclusive ownership of it.
func NewBackupHost(t transport.ITransport) *BackupHost {
	return &BackupHost{transport: t}
}

// Close releases the host's transport.
func (h *BackupHost) Close() error {
	return h.transport.Close()
}

// Heartbeat probes the backup for liveness. Any non-error response
// means the backup is up.
func (h *BackupHost) Heartbeat() error {
	Logger.Debugf("Sending heartbeat to backup")
	_, err := invokeRPCRequest(common.NewHeartbeatRequest(), h.transport)
	return err
}

// WriteSegment places data at offset in the backup's copy of an open
// segment. A request that would exceed the maximum frame size fails
// with common.ErrFrameTooLarge before anything is sent; chunking large
// writes is the caller's responsibility, this operation enforces only
// the single-frame bound.
func (h *BackupHost) WriteSegment(segmentID uint64, offset uint32, data []byte) error {
	if common.WriteOverheadBytes+len(data) > common.MaxFrameBytes {
		return fmt.Errorf("write of %d bytes to segment %d: %w",
			len(data), segmentID, common.ErrFrameTooLarge)
	}

	Logger.Debugf("Sending write of %d bytes to segment %d at offset %d", len(data), segmentID, offset)
	_, err := invokeRPCRequest(common.NewWriteRequest(segmentID, offset, data), h.transport)
	return err
}

// CommitSegment seals a written segment as durable. The transition is
// irreversible.
func (h *BackupHost) CommitSegment(segmentID uint64) error {
	Logger.Debugf("Sending commit for segment %d", segmentID)
	_, err := invokeRPCRequest(common.NewCommitRequest(segmentID), h.transport)
	return err
}

// FreeSegment releases the backup's storage for a committed or written
// segment. Double-free behavior is the backup's contract, not checked
// here.
func (h *BackupHost) FreeSegment(segmentID uint64) error {
	Logger.Debugf("Sending free for segment %d", segmentID)
	_, err := invokeRPCRequest(common.NewFreeRequest(segmentID), h.transport)
	return err
}

// GetSegmentList returns the ids of the segments this backup holds,
// used to discover recoverable segments. If the backup reports more
// than maxCount ids the call fails with common.ErrCapacityExceeded and
// returns nothing. Ordering is server-defined; a host reports only its
// own segments, merging across backups is the caller's concern.
func (h *BackupHost) GetSegmentList(maxCount uint32) ([]uint64, error) {
	resp, err := invokeRPCRequest(common.NewListRequest(), h.transport)
	if err != nil {
		return nil, err
	}

	if uint32(len(resp.SegmentIDs)) > maxCount {
		return nil, fmt.Errorf("backup holds %d segments, caller allows %d: %w",
			len(resp.SegmentIDs), maxCount, common.ErrCapacityExceeded)
	}
	Logger.Debugf("Backup reports %d recoverable segments", len(resp.SegmentIDs))
	return resp.SegmentIDs, nil
}

// GetSegmentMetadata returns the per-object recovery metadata of a
// committed segment, with the same capacity policy as GetSegmentList.
func (h *BackupHost) GetSegmentMetadata(segmentID uint64, maxCount uint32) ([]segment.Metadata, error) {
	resp, err := invokeRPCRequest(common.NewMetadataRequest(segmentID), h.transport)
	if err != nil {
		return nil, err
	}

	if uint32(len(resp.Objects)) > maxCount {
		return nil, fmt.Errorf("segment %d holds %d objects, caller allows %d: %w",
			segmentID, len(resp.Objects), maxCount, common.ErrCapacityExceeded)
	}
	Logger.Debugf("Segment %d reports %d recoverable objects", segmentID, len(resp.Objects))
	return resp.Objects, nil
}

// RetrieveSegment returns the full content of a committed segment as
// an owned buffer sized by the response.
func (h *BackupHost) RetrieveSegment(segmentID uint64) ([]byte, error) {
	resp, err := invokeRPCRequest(common.NewRetrieveRequest(segmentID), h.transport)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Retrieved segment %d of length %d", segmentID, len(resp.Data))
	return resp.Data, nil
}
