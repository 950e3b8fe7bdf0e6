// Package memory provides an in-process implementation of the client
// transport interface, connecting a master directly to a backup
// server's request handler without any network. It is used by tests
// and by embedded single-process setups.
package memory

import (
	"fmt"

	"github.com/jcarreira/ramcloud/rpc/common"
	"github.com/jcarreira/ramcloud/rpc/transport"
)

// clientTransport delivers each sent frame straight to a server
// handler and queues the response for the next Receive. Like the
// stream transports it is single-owner and supports one request in
// flight.
type clientTransport struct {
	handler transport.ServerHandleFunc
	pending [][]byte
	closed  bool
}

// NewMemoryClientTransport creates a client transport bound to the
// given server handler.
func NewMemoryClientTransport(handler transport.ServerHandleFunc) transport.ITransport {
	return &clientTransport{handler: handler}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.ITransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if t.handler == nil {
		return fmt.Errorf("no handler bound")
	}
	return nil
}

func (t *clientTransport) Send(frame []byte) error {
	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	// Hand the handler its own copy: a real transport never shares
	// buffers between peers.
	req := append([]byte(nil), frame...)
	t.pending = append(t.pending, t.handler(req))
	return nil
}

func (t *clientTransport) Receive() ([]byte, error) {
	if t.closed {
		return nil, fmt.Errorf("transport is closed")
	}
	if len(t.pending) == 0 {
		return nil, fmt.Errorf("no response pending")
	}
	resp := t.pending[0]
	t.pending = t.pending[1:]
	return resp, nil
}

func (t *clientTransport) Close() error {
	t.closed = true
	t.pending = nil
	return nil
}
