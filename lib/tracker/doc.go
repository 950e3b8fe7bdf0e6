// Package tracker implements the client-side bookkeeping needed for
// exactly-once execution of retried RPCs.
//
// A tracker hands out strictly increasing RPC ids from a bounded
// sliding window and maintains a rolling acknowledgment watermark: the
// highest id for which it and every smaller id are known finished. The
// watermark is piggybacked on outgoing RPCs so the server can discard
// its per-RPC dedup records for everything at or below it.
//
// A tracker is owned by a single client session. It performs no
// internal locking; callers driving it from multiple goroutines must
// serialize access themselves.
package tracker
