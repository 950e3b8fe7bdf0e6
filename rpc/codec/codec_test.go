package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/common"
)

// TestEncodeDecodeRoundTrip covers one message of every wire shape
func TestEncodeDecodeRoundTrip(t *testing.T) {
	messages := []*common.Message{
		common.NewHeartbeatRequest(),
		common.NewHeartbeatResponse(),
		common.NewWriteRequest(7, 128, []byte("segment payload")),
		common.NewWriteResponse(),
		common.NewCommitRequest(7),
		common.NewCommitResponse(),
		common.NewFreeRequest(9),
		common.NewFreeResponse(),
		common.NewListRequest(),
		common.NewListResponse([]uint64{1, 2, 99}),
		common.NewMetadataRequest(7),
		common.NewMetadataResponse([]segment.Metadata{{ObjectID: 4, Version: 2}}),
		common.NewRetrieveRequest(7),
		common.NewRetrieveResponse([]byte("stored bytes")),
		common.NewErrorResponse("no such segment"),
	}

	for _, msg := range messages {
		t.Run(msg.MsgType.String(), func(t *testing.T) {
			frame, err := Encode(msg)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			// The header must declare the frame's exact size.
			if declared := binary.BigEndian.Uint32(frame[4:8]); int(declared) != len(frame) {
				t.Fatalf("header declares %d bytes, frame has %d", declared, len(frame))
			}

			var got common.Message
			if err := Decode(frame, &got); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(&got, msg) {
				t.Errorf("round trip mismatch:\n  sent %+v\n  got  %+v", msg, &got)
			}
		})
	}
}

// TestDecodeLengthMismatch verifies that a frame whose received length
// disagrees with the declared header length fails with ErrFrameDesync
func TestDecodeLengthMismatch(t *testing.T) {
	frame, err := Encode(common.NewWriteRequest(1, 0, []byte("abcdef")))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var msg common.Message

	// Short delivery.
	if err := Decode(frame[:len(frame)-2], &msg); !errors.Is(err, common.ErrFrameDesync) {
		t.Errorf("truncated frame: expected ErrFrameDesync, got %v", err)
	}

	// Trailing garbage.
	if err := Decode(append(append([]byte(nil), frame...), 0), &msg); !errors.Is(err, common.ErrFrameDesync) {
		t.Errorf("oversized frame: expected ErrFrameDesync, got %v", err)
	}

	// Shorter than a header at all.
	if err := Decode([]byte{1, 2, 3}, &msg); !errors.Is(err, common.ErrFrameDesync) {
		t.Errorf("header fragment: expected ErrFrameDesync, got %v", err)
	}
}

// TestDecodeInternalLengthMismatch corrupts the write request's inner
// length field, which must be caught as a desync rather than decoded
func TestDecodeInternalLengthMismatch(t *testing.T) {
	frame, err := Encode(common.NewWriteRequest(1, 0, []byte("abcdef")))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	binary.BigEndian.PutUint32(frame[20:24], 3) // declared data length

	var msg common.Message
	if err := Decode(frame, &msg); !errors.Is(err, common.ErrFrameDesync) {
		t.Errorf("expected ErrFrameDesync, got %v", err)
	}
}

// TestEncodeFrameTooLarge verifies the single-frame write bound
func TestEncodeFrameTooLarge(t *testing.T) {
	// Exactly at the bound: a full segment fits.
	frame, err := Encode(common.NewWriteRequest(1, 0, make([]byte, common.SegmentBytes)))
	if err != nil {
		t.Fatalf("full-segment write: %v", err)
	}
	if len(frame) != common.MaxFrameBytes {
		t.Fatalf("full-segment write frame is %d bytes, expected %d", len(frame), common.MaxFrameBytes)
	}

	// One byte over.
	if _, err := Encode(common.NewWriteRequest(1, 0, make([]byte, common.SegmentBytes+1))); !errors.Is(err, common.ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}

// TestDecodeUnknownType verifies unknown discriminants are rejected
func TestDecodeUnknownType(t *testing.T) {
	frame := make([]byte, 8)
	binary.BigEndian.PutUint32(frame[0:4], 200)
	binary.BigEndian.PutUint32(frame[4:8], 8)

	var msg common.Message
	if err := Decode(frame, &msg); err == nil {
		t.Error("expected error for unknown message type, got nil")
	}
}

// TestDecodeResetsMessage verifies a reused Message carries no fields
// over from a previous decode
func TestDecodeResetsMessage(t *testing.T) {
	var msg common.Message

	frame, _ := Encode(common.NewRetrieveResponse([]byte("old data")))
	if err := Decode(frame, &msg); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	frame, _ = Encode(common.NewHeartbeatResponse())
	if err := Decode(frame, &msg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Data != nil || msg.Err != "" {
		t.Errorf("stale fields survived decode: %+v", msg)
	}
}

// TestListResponseEmpty verifies an empty list round-trips as a
// present-but-empty sequence
func TestListResponseEmpty(t *testing.T) {
	frame, err := Encode(common.NewListResponse(nil))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var msg common.Message
	if err := Decode(frame, &msg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(msg.SegmentIDs) != 0 {
		t.Errorf("expected no ids, got %v", msg.SegmentIDs)
	}
}

// TestErrorResponseText verifies the server's message text survives the wire
func TestErrorResponseText(t *testing.T) {
	const text = "cannot commit segment 17: not written"
	frame, err := Encode(common.NewErrorResponse(text))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var msg common.Message
	if err := Decode(frame, &msg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Err != text {
		t.Errorf("expected %q, got %q", text, msg.Err)
	}
}

// TestWriteRequestDataCopied verifies decode does not alias the frame
func TestWriteRequestDataCopied(t *testing.T) {
	frame, err := Encode(common.NewWriteRequest(1, 0, []byte("payload")))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var msg common.Message
	if err := Decode(frame, &msg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range frame {
		frame[i] = 0xff
	}
	if !bytes.Equal(msg.Data, []byte("payload")) {
		t.Error("decoded data aliases the frame buffer")
	}
}
