// Package base provides the shared implementation core for the stream
// based transports (TCP, Unix sockets).
//
// It handles everything that is independent of the concrete medium:
// outer length-prefix framing that preserves message boundaries on a
// byte stream, connection setup and teardown, deadlines, and the
// server's accept/serve loop. The concrete transports inject small
// connector objects that only know how to dial or listen.
//
// The client transport deliberately holds a single connection with a
// single request in flight: the backup protocol has no correlation
// ids, so responses can only be matched to requests by ordering.
package base
