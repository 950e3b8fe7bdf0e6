package client

import (
	"fmt"

	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/transport"
)

// maxBackupHosts caps the replication fan-out. Raising it is a
// capacity change, not a redesign: every operation already iterates
// the host list.
const maxBackupHosts = 1

// MultiBackupClient presents one durability API over the registered
// backup hosts. With no host registered, mutating operations are
// no-ops and queries return empty results; the surrounding system can
// run without durability configured, but a higher layer must flag that
// condition, the facade does not.
//
// Host failures are forwarded verbatim, the facade adds no translation.
type MultiBackupClient struct {
	hosts []*BackupHost
}

// NewMultiBackupClient creates a client with no hosts registered.
func NewMultiBackupClient() *MultiBackupClient {
	return &MultiBackupClient{}
}

// AddHost registers a backup host on top of the given connected
// transport, taking exclusive ownership of it. Registering more than
// maxBackupHosts hosts fails with common.ErrHostAlreadyRegistered and
// leaves the existing hosts fully usable; ownership of the rejected
// transport stays with the caller.
func (c *MultiBackupClient) AddHost(t transport.ITransport) error {
	if len(c.hosts) >= maxBackupHosts {
		return fmt.Errorf("have %d hosts: %w", len(c.hosts), common.ErrHostAlreadyRegistered)
	}
	c.hosts = append(c.hosts, NewBackupHost(t))
	return nil
}

// Close releases all registered hosts and their transports.
func (c *MultiBackupClient) Close() error {
	var firstErr error
	for _, host := range c.hosts {
		if err := host.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.hosts = nil
	return firstErr
}

// --------------------------------------------------------------------------
// Forwarded segment operations (docu see BackupHost)
// --------------------------------------------------------------------------

func (c *MultiBackupClient) Heartbeat() error {
	for _, host := range c.hosts {
		if err := host.Heartbeat(); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiBackupClient) WriteSegment(segmentID uint64, offset uint32, data []byte) error {
	for _, host := range c.hosts {
		if err := host.WriteSegment(segmentID, offset, data); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiBackupClient) CommitSegment(segmentID uint64) error {
	for _, host := range c.hosts {
		if err := host.CommitSegment(segmentID); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiBackupClient) FreeSegment(segmentID uint64) error {
	for _, host := range c.hosts {
		if err := host.FreeSegment(segmentID); err != nil {
			return err
		}
	}
	return nil
}

func (c *MultiBackupClient) GetSegmentList(maxCount uint32) ([]uint64, error) {
	for _, host := range c.hosts {
		return host.GetSegmentList(maxCount)
	}
	return nil, nil
}

func (c *MultiBackupClient) GetSegmentMetadata(segmentID uint64, maxCount uint32) ([]segment.Metadata, error) {
	for _, host := range c.hosts {
		return host.GetSegmentMetadata(segmentID, maxCount)
	}
	return nil, nil
}

func (c *MultiBackupClient) RetrieveSegment(segmentID uint64) ([]byte, error) {
	for _, host := range c.hosts {
		return host.RetrieveSegment(segmentID)
	}
	return nil, nil
}
