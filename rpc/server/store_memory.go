package server

import (
	"fmt"
	"sync"

	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// memSegment is one replica segment held in memory
type memSegment struct {
	mu        sync.Mutex
	data      []byte
	committed bool
}

// memorySegmentStore keeps all segments in process memory. It is the
// default backend and the one used by tests.
type memorySegmentStore struct {
	segments *xsync.MapOf[uint64, *memSegment]
}

// NewMemorySegmentStore creates an empty in-memory segment store
func NewMemorySegmentStore() ISegmentStore {
	return &memorySegmentStore{
		segments: xsync.NewMapOf[uint64, *memSegment](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (s *memorySegmentStore) Write(segmentID uint64, offset uint32, data []byte) error {
	if int(offset)+len(data) > common.SegmentBytes {
		return fmt.Errorf("write past segment bound: offset %d + %d bytes > %d",
			offset, len(data), common.SegmentBytes)
	}

	seg, _ := s.segments.LoadOrStore(segmentID, &memSegment{})

	seg.mu.Lock()
	defer seg.mu.Unlock()

	if seg.committed {
		return fmt.Errorf("segment %d is committed, cannot write", segmentID)
	}

	// Grow the segment to cover the write
	if end := int(offset) + len(data); end > len(seg.data) {
		grown := make([]byte, end)
		copy(grown, seg.data)
		seg.data = grown
	}
	copy(seg.data[offset:], data)
	return nil
}

func (s *memorySegmentStore) Commit(segmentID uint64) error {
	seg, ok := s.segments.Load(segmentID)
	if !ok {
		return fmt.Errorf("segment %d does not exist", segmentID)
	}

	seg.mu.Lock()
	defer seg.mu.Unlock()
	seg.committed = true
	return nil
}

func (s *memorySegmentStore) Free(segmentID uint64) error {
	if _, ok := s.segments.LoadAndDelete(segmentID); !ok {
		return fmt.Errorf("segment %d does not exist", segmentID)
	}
	return nil
}

func (s *memorySegmentStore) List() ([]uint64, error) {
	var ids []uint64
	s.segments.Range(func(id uint64, _ *memSegment) bool {
		ids = append(ids, id)
		return true
	})
	return ids, nil
}

func (s *memorySegmentStore) Metadata(segmentID uint64) ([]segment.Metadata, error) {
	data, err := s.committedData(segmentID)
	if err != nil {
		return nil, err
	}
	return segment.ExtractMetadata(data)
}

func (s *memorySegmentStore) Retrieve(segmentID uint64) ([]byte, error) {
	return s.committedData(segmentID)
}

func (s *memorySegmentStore) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// committedData returns a copy of a committed segment's content
func (s *memorySegmentStore) committedData(segmentID uint64) ([]byte, error) {
	seg, ok := s.segments.Load(segmentID)
	if !ok {
		return nil, fmt.Errorf("segment %d does not exist", segmentID)
	}

	seg.mu.Lock()
	defer seg.mu.Unlock()

	if !seg.committed {
		return nil, fmt.Errorf("segment %d is not committed", segmentID)
	}
	return append([]byte(nil), seg.data...), nil
}
