// Package transport defines the interfaces and abstractions for moving
// backup RPC frames between a master and a backup server. It provides
// a common contract that all transport implementations must fulfill,
// keeping the protocol layer independent of the medium.
//
// The package focuses on:
//   - Preserving message boundaries (no partial-frame delivery)
//   - One synchronous request/response exchange at a time per link
//   - Enabling multiple transport implementations (TCP, Unix sockets,
//     in-process)
//
// Key Components:
//
//   - ITransport: Interface for client-side transports. A backup host
//     takes exclusive ownership of its transport and closes it on
//     teardown.
//
//   - IServerTransport: Interface for server-side transports that
//     receive requests and route them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
