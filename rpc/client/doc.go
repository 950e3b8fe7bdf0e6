// Package client implements the master side of the segment backup
// protocol: the per-host RPC stubs and the replication facade the
// master's log manager talks to.
//
// The package focuses on:
//   - One synchronous request/response round trip per operation
//   - Enforcing the single-frame write bound before anything is sent
//   - Surfacing the backup's own error messages to the caller
//
// Key Components:
//
//   - BackupHost: client for one backup server. Takes exclusive
//     ownership of its transport and keeps no state between calls.
//
//   - MultiBackupClient: facade over the registered hosts (capacity 1
//     today). With no host registered it degrades to no-ops so the
//     surrounding system can run without durability configured.
//
// Usage Example:
//
//	t := tcp.NewTCPClientTransport()
//	if err := t.Connect(common.ClientConfig{Endpoint: "localhost:8421"}); err != nil {
//		// handle
//	}
//
//	backups := client.NewMultiBackupClient()
//	if err := backups.AddHost(t); err != nil { // backups now owns t
//		// handle
//	}
//
//	backups.WriteSegment(segID, 0, data)
//	backups.CommitSegment(segID)
//
// Thread Safety:
//
//	The protocol carries no correlation ids, so a host supports one
//	request in flight. Callers driving a host or the facade from
//	multiple goroutines must serialize externally.
package client
