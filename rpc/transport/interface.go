package transport

import (
	"github.com/jcarreira/ramcloud/rpc/common"
)

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// ITransport is the interface for the client side of the backup
// protocol: a synchronous message pipe to one backup server.
//
// Message boundaries are preserved end to end: one Send transmits one
// logical message, one Receive yields exactly one logical message.
// The protocol carries no correlation id, so a transport supports at
// most one request in flight; callers must consume the response to a
// Send before issuing the next one.
//
// A transport has exactly one owner. Handing it to a backup host
// transfers ownership; the host closes it on teardown.
type ITransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send transmits one complete message
	Send(frame []byte) error
	// Receive blocks until the next complete message arrives
	Receive() ([]byte, error)
	// Close closes the transport connection
	Close() error
}

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests.
// It is called by a server transport with one complete request message
// and returns the complete response message.
type ServerHandleFunc func(req []byte) (resp []byte)

// IServerTransport is the interface for the server side of the backup
// protocol.
type IServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler is called once per received request
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and serves incoming requests
	Listen(config common.ServerConfig) error
}
