package client

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/codec"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/server"
	"github.com/jcarreira/ramcloud/rpc/transport"
	"github.com/jcarreira/ramcloud/rpc/transport/memory"
)

// newTestHost creates a backup host wired to an in-process backup
// server with an in-memory segment store
func newTestHost(t *testing.T) *BackupHost {
	t.Helper()

	srv := server.NewBackupServer(
		common.ServerConfig{Storage: common.StorageMemory},
		nil,
		server.NewMemorySegmentStore(),
	)
	host := NewBackupHost(memory.NewMemoryClientTransport(srv.Handler()))
	t.Cleanup(func() { _ = host.Close() })
	return host
}

// testSegmentData builds a segment image with a few records
func testSegmentData(t *testing.T) ([]byte, []segment.Metadata) {
	t.Helper()

	records := []segment.Record{
		{ObjectID: 1, Version: 1, Data: []byte("alpha")},
		{ObjectID: 2, Version: 7, Data: []byte("beta")},
		{ObjectID: 1, Version: 2, Data: []byte("alpha-v2")},
	}

	var data []byte
	var expected []segment.Metadata
	for _, rec := range records {
		data = segment.Append(data, rec)
		expected = append(expected, segment.Metadata{ObjectID: rec.ObjectID, Version: rec.Version})
	}
	return data, expected
}

func TestBackupHostLifecycle(t *testing.T) {
	host := newTestHost(t)

	if err := host.Heartbeat(); err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}

	data, expected := testSegmentData(t)
	const segmentID = 42

	if err := host.WriteSegment(segmentID, 0, data); err != nil {
		t.Fatalf("WriteSegment failed: %v", err)
	}
	if err := host.CommitSegment(segmentID); err != nil {
		t.Fatalf("CommitSegment failed: %v", err)
	}

	// The committed segment must be discoverable ...
	ids, err := host.GetSegmentList(16)
	if err != nil {
		t.Fatalf("GetSegmentList failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != segmentID {
		t.Errorf("expected segment list [%d], got %v", segmentID, ids)
	}

	// ... its objects enumerable ...
	objects, err := host.GetSegmentMetadata(segmentID, 16)
	if err != nil {
		t.Fatalf("GetSegmentMetadata failed: %v", err)
	}
	if len(objects) != len(expected) {
		t.Fatalf("expected %d objects, got %d", len(expected), len(objects))
	}
	for i, obj := range objects {
		if obj != expected[i] {
			t.Errorf("object %d: expected %+v, got %+v", i, expected[i], obj)
		}
	}

	// ... and its content retrievable byte for byte
	retrieved, err := host.RetrieveSegment(segmentID)
	if err != nil {
		t.Fatalf("RetrieveSegment failed: %v", err)
	}
	if !bytes.Equal(retrieved, data) {
		t.Errorf("retrieved segment differs from written segment")
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	host := newTestHost(t)

	if err := host.WriteSegment(1, 0, []byte("payload")); err != nil {
		t.Fatalf("WriteSegment failed: %v", err)
	}
	if err := host.CommitSegment(1); err != nil {
		t.Fatalf("first CommitSegment failed: %v", err)
	}
	// A retry after a lost response must succeed
	if err := host.CommitSegment(1); err != nil {
		t.Errorf("second CommitSegment failed: %v", err)
	}
}

func TestFreeSegment(t *testing.T) {
	host := newTestHost(t)

	if err := host.WriteSegment(1, 0, []byte("payload")); err != nil {
		t.Fatalf("WriteSegment failed: %v", err)
	}
	if err := host.CommitSegment(1); err != nil {
		t.Fatalf("CommitSegment failed: %v", err)
	}
	if err := host.FreeSegment(1); err != nil {
		t.Fatalf("FreeSegment failed: %v", err)
	}

	ids, err := host.GetSegmentList(16)
	if err != nil {
		t.Fatalf("GetSegmentList failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty segment list after free, got %v", ids)
	}
}

// recordingTransport counts sends, to verify that oversized writes are
// rejected before anything reaches the wire
type recordingTransport struct {
	sends int
}

func (t *recordingTransport) Connect(common.ClientConfig) error { return nil }
func (t *recordingTransport) Send([]byte) error {
	t.sends++
	return nil
}
func (t *recordingTransport) Receive() ([]byte, error) {
	return nil, fmt.Errorf("no response")
}
func (t *recordingTransport) Close() error { return nil }

func TestWriteTooLargeNotSent(t *testing.T) {
	rec := &recordingTransport{}
	host := NewBackupHost(rec)

	data := make([]byte, common.SegmentBytes+1)
	err := host.WriteSegment(1, 0, data)
	if !errors.Is(err, common.ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
	if rec.sends != 0 {
		t.Errorf("oversized write reached the transport (%d sends)", rec.sends)
	}
}

func TestWriteFullSegmentAllowed(t *testing.T) {
	host := newTestHost(t)

	// Exactly one full segment is the largest legal write
	data := make([]byte, common.SegmentBytes)
	if err := host.WriteSegment(1, 0, data); err != nil {
		t.Fatalf("full segment write failed: %v", err)
	}
}

func TestCapacityExceededReturnsNothing(t *testing.T) {
	host := newTestHost(t)

	for segmentID := uint64(1); segmentID <= 3; segmentID++ {
		if err := host.WriteSegment(segmentID, 0, []byte("payload")); err != nil {
			t.Fatalf("WriteSegment %d failed: %v", segmentID, err)
		}
		if err := host.CommitSegment(segmentID); err != nil {
			t.Fatalf("CommitSegment %d failed: %v", segmentID, err)
		}
	}

	ids, err := host.GetSegmentList(2)
	if !errors.Is(err, common.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if ids != nil {
		t.Errorf("expected no ids on capacity error, got %v", ids)
	}

	// Same policy for metadata
	data, expected := testSegmentData(t)
	if err := host.WriteSegment(9, 0, data); err != nil {
		t.Fatalf("WriteSegment failed: %v", err)
	}
	if err := host.CommitSegment(9); err != nil {
		t.Fatalf("CommitSegment failed: %v", err)
	}
	objects, err := host.GetSegmentMetadata(9, uint32(len(expected)-1))
	if !errors.Is(err, common.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if objects != nil {
		t.Errorf("expected no objects on capacity error, got %v", objects)
	}
}

func TestRemoteErrorSurfaced(t *testing.T) {
	host := newTestHost(t)

	tests := []struct {
		name string
		call func() error
	}{
		{"CommitUnknown", func() error { return host.CommitSegment(404) }},
		{"FreeUnknown", func() error { return host.FreeSegment(404) }},
		{"RetrieveUnknown", func() error { _, err := host.RetrieveSegment(404); return err }},
		{"MetadataUnknown", func() error { _, err := host.GetSegmentMetadata(404, 16); return err }},
		{"WriteCommitted", func() error {
			if err := host.WriteSegment(5, 0, []byte("x")); err != nil {
				return err
			}
			if err := host.CommitSegment(5); err != nil {
				return err
			}
			return host.WriteSegment(5, 0, []byte("y"))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			var remoteErr *common.RemoteError
			if !errors.As(err, &remoteErr) {
				t.Fatalf("expected RemoteError, got %v", err)
			}
			if remoteErr.Message == "" {
				t.Errorf("remote error carries no message")
			}
		})
	}
}

func TestRemoteErrorForEveryRequestType(t *testing.T) {
	// A backup that answers every request with the same error response
	const failure = "injected backup failure"
	handler := func(_ []byte) []byte {
		resp, err := codec.Encode(common.NewErrorResponse(failure))
		if err != nil {
			t.Fatalf("failed to encode error response: %v", err)
		}
		return resp
	}
	host := NewBackupHost(memory.NewMemoryClientTransport(handler))

	tests := []struct {
		name string
		call func() error
	}{
		{"Heartbeat", func() error { return host.Heartbeat() }},
		{"Write", func() error { return host.WriteSegment(1, 0, []byte("x")) }},
		{"Commit", func() error { return host.CommitSegment(1) }},
		{"Free", func() error { return host.FreeSegment(1) }},
		{"List", func() error { _, err := host.GetSegmentList(16); return err }},
		{"Metadata", func() error { _, err := host.GetSegmentMetadata(1, 16); return err }},
		{"Retrieve", func() error { _, err := host.RetrieveSegment(1); return err }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var remoteErr *common.RemoteError
			if err := tc.call(); !errors.As(err, &remoteErr) {
				t.Fatalf("expected RemoteError, got %v", err)
			} else if remoteErr.Message != failure {
				t.Errorf("expected message %q, got %q", failure, remoteErr.Message)
			}
		})
	}
}

func TestRetrieveUncommittedFails(t *testing.T) {
	host := newTestHost(t)

	if err := host.WriteSegment(1, 0, []byte("payload")); err != nil {
		t.Fatalf("WriteSegment failed: %v", err)
	}

	var remoteErr *common.RemoteError
	if _, err := host.RetrieveSegment(1); !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError for uncommitted retrieve, got %v", err)
	}
}

func TestUnexpectedResponseType(t *testing.T) {
	// A handler that answers every request with a commit response
	handler := func(_ []byte) []byte {
		resp, err := codec.Encode(common.NewCommitResponse())
		if err != nil {
			t.Fatalf("failed to encode response: %v", err)
		}
		return resp
	}

	var _ transport.ServerHandleFunc = handler
	host := NewBackupHost(memory.NewMemoryClientTransport(handler))

	if err := host.Heartbeat(); err == nil {
		t.Fatal("expected error for mismatched response type")
	}
}
