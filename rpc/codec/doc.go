// Package codec converts backup RPC messages to and from their fixed
// binary wire layout.
//
// Every frame starts with an 8 byte header: the message type as a
// big-endian uint32 followed by the total frame length (header
// included) as a big-endian uint32. The body layout is fixed per
// message type. Decode validates the declared length against the
// bytes actually received and every embedded count against the frame
// bounds, so a malformed or desynchronized frame is reported instead
// of being reinterpreted.
package codec
