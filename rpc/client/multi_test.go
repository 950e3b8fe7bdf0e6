package client

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/server"
	"github.com/jcarreira/ramcloud/rpc/transport/memory"
)

// newTestClient creates a facade with one host wired to an in-process
// backup server
func newTestClient(t *testing.T) *MultiBackupClient {
	t.Helper()

	srv := server.NewBackupServer(
		common.ServerConfig{Storage: common.StorageMemory},
		nil,
		server.NewMemorySegmentStore(),
	)

	backups := NewMultiBackupClient()
	if err := backups.AddHost(memory.NewMemoryClientTransport(srv.Handler())); err != nil {
		t.Fatalf("AddHost failed: %v", err)
	}
	t.Cleanup(func() { _ = backups.Close() })
	return backups
}

func TestNoHostsIsDurabilityOff(t *testing.T) {
	backups := NewMultiBackupClient()

	// Mutating operations are silent no-ops
	if err := backups.Heartbeat(); err != nil {
		t.Errorf("Heartbeat with no hosts failed: %v", err)
	}
	if err := backups.WriteSegment(1, 0, []byte("payload")); err != nil {
		t.Errorf("WriteSegment with no hosts failed: %v", err)
	}
	if err := backups.CommitSegment(1); err != nil {
		t.Errorf("CommitSegment with no hosts failed: %v", err)
	}
	if err := backups.FreeSegment(1); err != nil {
		t.Errorf("FreeSegment with no hosts failed: %v", err)
	}

	// Queries return empty results
	if ids, err := backups.GetSegmentList(16); err != nil || len(ids) != 0 {
		t.Errorf("GetSegmentList with no hosts: ids=%v, err=%v", ids, err)
	}
	if objects, err := backups.GetSegmentMetadata(1, 16); err != nil || len(objects) != 0 {
		t.Errorf("GetSegmentMetadata with no hosts: objects=%v, err=%v", objects, err)
	}
	if data, err := backups.RetrieveSegment(1); err != nil || data != nil {
		t.Errorf("RetrieveSegment with no hosts: data=%v, err=%v", data, err)
	}
}

func TestAddHostLimit(t *testing.T) {
	backups := newTestClient(t)

	err := backups.AddHost(&recordingTransport{})
	if !errors.Is(err, common.ErrHostAlreadyRegistered) {
		t.Fatalf("expected ErrHostAlreadyRegistered, got %v", err)
	}

	// The registered host must stay usable after the rejection
	if err := backups.Heartbeat(); err != nil {
		t.Errorf("Heartbeat after rejected AddHost failed: %v", err)
	}
}

func TestFacadeForwardsOperations(t *testing.T) {
	backups := newTestClient(t)

	data := []byte("replicated payload")
	if err := backups.WriteSegment(7, 0, data); err != nil {
		t.Fatalf("WriteSegment failed: %v", err)
	}
	if err := backups.CommitSegment(7); err != nil {
		t.Fatalf("CommitSegment failed: %v", err)
	}

	ids, err := backups.GetSegmentList(16)
	if err != nil {
		t.Fatalf("GetSegmentList failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("expected segment list [7], got %v", ids)
	}

	retrieved, err := backups.RetrieveSegment(7)
	if err != nil {
		t.Fatalf("RetrieveSegment failed: %v", err)
	}
	if !bytes.Equal(retrieved, data) {
		t.Errorf("retrieved segment differs from written segment")
	}
}

func TestCloseReleasesHosts(t *testing.T) {
	backups := newTestClient(t)

	if err := backups.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// After Close the facade is empty again
	if err := backups.AddHost(&recordingTransport{}); err != nil {
		t.Errorf("AddHost after Close failed: %v", err)
	}
}
