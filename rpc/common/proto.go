package common

import (
	"github.com/jcarreira/ramcloud/lib/segment"
)

// --------------------------------------------------------------------------
// Frame Limits
// --------------------------------------------------------------------------

const (
	// SegmentBytes is the size of one full log segment. The frame
	// limit is sized so a single write request can carry one.
	SegmentBytes = 8 * 1024 * 1024

	// WriteOverheadBytes is the fixed prefix of a write request:
	// frame header (8) + segmentId (8) + offset (4) + length (4).
	WriteOverheadBytes = 8 + 8 + 4 + 4

	// MaxFrameBytes is the largest frame the protocol permits. The
	// bound is enforced before a frame is sent, never after.
	MaxFrameBytes = WriteOverheadBytes + SegmentBytes
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single backup RPC message. Requests and
// responses carry distinct type discriminants; which fields are used
// depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType

	// Request fields
	SegmentID uint64 // Used for: WriteReq, CommitReq, FreeReq, MetadataReq, RetrieveReq
	Offset    uint32 // Used for: WriteReq

	// Request and response fields
	Data []byte // Used for: WriteReq, RetrieveResp

	// Response only fields
	SegmentIDs []uint64           // Used for: ListResp
	Objects    []segment.Metadata // Used for: MetadataResp
	Err        string             // Used for: ErrorResp
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewHeartbeatRequest creates a new Heartbeat request
func NewHeartbeatRequest() *Message {
	return &Message{MsgType: MsgTHeartbeatReq}
}

// NewHeartbeatResponse creates a new Heartbeat response
func NewHeartbeatResponse() *Message {
	return &Message{MsgType: MsgTHeartbeatResp}
}

// NewWriteRequest creates a new Write request carrying data to be
// placed at offset in the backup's copy of the segment
func NewWriteRequest(segmentID uint64, offset uint32, data []byte) *Message {
	return &Message{
		MsgType:   MsgTWriteReq,
		SegmentID: segmentID,
		Offset:    offset,
		Data:      data,
	}
}

// NewWriteResponse creates a new Write response
func NewWriteResponse() *Message {
	return &Message{MsgType: MsgTWriteResp}
}

// NewCommitRequest creates a new Commit request
func NewCommitRequest(segmentID uint64) *Message {
	return &Message{MsgType: MsgTCommitReq, SegmentID: segmentID}
}

// NewCommitResponse creates a new Commit response
func NewCommitResponse() *Message {
	return &Message{MsgType: MsgTCommitResp}
}

// NewFreeRequest creates a new Free request
func NewFreeRequest(segmentID uint64) *Message {
	return &Message{MsgType: MsgTFreeReq, SegmentID: segmentID}
}

// NewFreeResponse creates a new Free response
func NewFreeResponse() *Message {
	return &Message{MsgType: MsgTFreeResp}
}

// NewListRequest creates a new List request
func NewListRequest() *Message {
	return &Message{MsgType: MsgTListReq}
}

// NewListResponse creates a new List response carrying the segment ids
// the backup currently holds
func NewListResponse(segmentIDs []uint64) *Message {
	return &Message{MsgType: MsgTListResp, SegmentIDs: segmentIDs}
}

// NewMetadataRequest creates a new Metadata request
func NewMetadataRequest(segmentID uint64) *Message {
	return &Message{MsgType: MsgTMetadataReq, SegmentID: segmentID}
}

// NewMetadataResponse creates a new Metadata response carrying the
// per-object recovery metadata of a committed segment
func NewMetadataResponse(objects []segment.Metadata) *Message {
	return &Message{MsgType: MsgTMetadataResp, Objects: objects}
}

// NewRetrieveRequest creates a new Retrieve request
func NewRetrieveRequest(segmentID uint64) *Message {
	return &Message{MsgType: MsgTRetrieveReq, SegmentID: segmentID}
}

// NewRetrieveResponse creates a new Retrieve response carrying the full
// content of a committed segment
func NewRetrieveResponse(data []byte) *Message {
	return &Message{MsgType: MsgTRetrieveResp, Data: data}
}

// NewErrorResponse creates a new Error response. An error response may
// answer any request type.
func NewErrorResponse(err string) *Message {
	return &Message{MsgType: MsgTErrorResp, Err: err}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in backup RPC
// communication. It doubles as the wire discriminant. Requests and
// responses use distinct discriminants so a frame's direction never
// depends on context.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTHeartbeatReq:
		return "heartbeat"
	case MsgTHeartbeatResp:
		return "heartbeat-resp"
	case MsgTWriteReq:
		return "write"
	case MsgTWriteResp:
		return "write-resp"
	case MsgTCommitReq:
		return "commit"
	case MsgTCommitResp:
		return "commit-resp"
	case MsgTFreeReq:
		return "free"
	case MsgTFreeResp:
		return "free-resp"
	case MsgTListReq:
		return "list"
	case MsgTListResp:
		return "list-resp"
	case MsgTMetadataReq:
		return "metadata"
	case MsgTMetadataResp:
		return "metadata-resp"
	case MsgTRetrieveReq:
		return "retrieve"
	case MsgTRetrieveResp:
		return "retrieve-resp"
	case MsgTErrorResp:
		return "error"
	default:
		return "unknown"
	}
}

// ResponseType returns the response discriminant matching a request
// discriminant. The universal error response is handled separately.
func (t MessageType) ResponseType() MessageType {
	return t + 1
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

// Request/response pairs are adjacent so MessageType.ResponseType can
// map between them.
const (
	MsgTUnknown MessageType = iota

	MsgTHeartbeatReq  // Liveness probe
	MsgTHeartbeatResp //
	MsgTWriteReq      // Write bytes into an open segment
	MsgTWriteResp     //
	MsgTCommitReq     // Seal a segment as durable
	MsgTCommitResp    //
	MsgTFreeReq       // Release backup-side storage for a segment
	MsgTFreeResp      //
	MsgTListReq       // List the segment ids a backup holds
	MsgTListResp      //
	MsgTMetadataReq   // Recovery metadata of a committed segment
	MsgTMetadataResp  //
	MsgTRetrieveReq   // Full content of a committed segment
	MsgTRetrieveResp  //

	MsgTErrorResp // Indicates an error occurred; valid reply to any request
)
