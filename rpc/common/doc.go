// Package common provides core data structures and utilities shared
// across the segment backup RPC system. It defines the message
// protocol, configuration structures, the error taxonomy and logging.
//
// The package focuses on:
//   - Message protocol definition for master/backup communication
//   - Configuration structures for client and server components
//   - Custom logging implementation built on the dragonboat logger
//   - The typed errors the RPC layer surfaces to callers
//
// Key Components:
//
//   - Message: Core data structure for all backup RPC communication,
//     with a flexible structure that adapts to the different segment
//     operations. Includes factory methods for creating the request
//     and response messages.
//
//   - MessageType: Enumeration of all supported operations, doubling
//     as the wire discriminant of each frame.
//
//   - ClientConfig / ServerConfig: Connection and server settings,
//     including transport buffer tuning and the server's storage
//     backend selection.
//
//   - RemoteError and the Err* sentinels: the failure classes of the
//     protocol. A RemoteError carries the backup's own message text;
//     ErrFrameDesync marks an unrecoverable connection state.
package common
