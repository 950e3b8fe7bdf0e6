package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/common"
)

// headerBytes is the fixed frame prefix: type (4) + total length (4).
const headerBytes = 8

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// Encode serializes msg into one wire frame. It fails with
// common.ErrFrameTooLarge if the frame would exceed the protocol's
// maximum frame size; nothing oversized is ever produced.
func Encode(msg *common.Message) ([]byte, error) {
	totalSize, err := sizeBytes(msg)
	if err != nil {
		return nil, err
	}
	if totalSize > common.MaxFrameBytes {
		return nil, fmt.Errorf("%s frame of %d bytes: %w", msg.MsgType, totalSize, common.ErrFrameTooLarge)
	}

	result := make([]byte, totalSize)

	// Write the frame header
	binary.BigEndian.PutUint32(result[0:4], uint32(msg.MsgType))
	binary.BigEndian.PutUint32(result[4:8], uint32(totalSize))

	// Set position for writing the body
	pos := headerBytes

	switch msg.MsgType {
	case common.MsgTHeartbeatReq, common.MsgTHeartbeatResp,
		common.MsgTWriteResp, common.MsgTCommitResp, common.MsgTFreeResp,
		common.MsgTListReq:
		// Empty body

	case common.MsgTWriteReq:
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.SegmentID)
		pos += 8
		binary.BigEndian.PutUint32(result[pos:pos+4], msg.Offset)
		pos += 4
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Data)))
		pos += 4
		copy(result[pos:], msg.Data)

	case common.MsgTCommitReq, common.MsgTFreeReq,
		common.MsgTMetadataReq, common.MsgTRetrieveReq:
		binary.BigEndian.PutUint64(result[pos:pos+8], msg.SegmentID)

	case common.MsgTListResp:
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.SegmentIDs)))
		pos += 4
		for _, id := range msg.SegmentIDs {
			binary.BigEndian.PutUint64(result[pos:pos+8], id)
			pos += 8
		}

	case common.MsgTMetadataResp:
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Objects)))
		pos += 4
		for _, obj := range msg.Objects {
			binary.BigEndian.PutUint64(result[pos:pos+8], obj.ObjectID)
			binary.BigEndian.PutUint64(result[pos+8:pos+16], obj.Version)
			pos += 16
		}

	case common.MsgTRetrieveResp:
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Data)))
		pos += 4
		copy(result[pos:], msg.Data)

	case common.MsgTErrorResp:
		errBytes := []byte(msg.Err)
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(errBytes)))
		pos += 4
		copy(result[pos:], errBytes)

	default:
		return nil, fmt.Errorf("cannot encode message type %d", uint32(msg.MsgType))
	}

	return result, nil
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// Decode parses one received frame into msg. A frame whose actual
// length disagrees with its declared header length fails with
// common.ErrFrameDesync: the connection is no longer frame-aligned
// and must not be reused.
func Decode(data []byte, msg *common.Message) error {
	if len(data) < headerBytes {
		return fmt.Errorf("frame of %d bytes is shorter than the header: %w", len(data), common.ErrFrameDesync)
	}

	declared := int(binary.BigEndian.Uint32(data[4:8]))
	if declared != len(data) {
		return fmt.Errorf("received %d bytes, header declares %d: %w", len(data), declared, common.ErrFrameDesync)
	}

	msgType := common.MessageType(binary.BigEndian.Uint32(data[0:4]))
	body := data[headerBytes:]

	// Reset all fields so a reused Message carries nothing over.
	*msg = common.Message{MsgType: msgType}

	switch msgType {
	case common.MsgTHeartbeatReq, common.MsgTHeartbeatResp,
		common.MsgTWriteResp, common.MsgTCommitResp, common.MsgTFreeResp,
		common.MsgTListReq:
		if len(body) != 0 {
			return fmt.Errorf("%s carries an unexpected %d byte body", msgType, len(body))
		}

	case common.MsgTWriteReq:
		if len(body) < 16 {
			return fmt.Errorf("write body of %d bytes is truncated", len(body))
		}
		msg.SegmentID = binary.BigEndian.Uint64(body[0:8])
		msg.Offset = binary.BigEndian.Uint32(body[8:12])
		dataLen := int(binary.BigEndian.Uint32(body[12:16]))
		if dataLen != len(body)-16 {
			return fmt.Errorf("write declares %d data bytes, frame carries %d: %w",
				dataLen, len(body)-16, common.ErrFrameDesync)
		}
		msg.Data = append([]byte(nil), body[16:]...)

	case common.MsgTCommitReq, common.MsgTFreeReq,
		common.MsgTMetadataReq, common.MsgTRetrieveReq:
		if len(body) != 8 {
			return fmt.Errorf("%s body of %d bytes is malformed", msgType, len(body))
		}
		msg.SegmentID = binary.BigEndian.Uint64(body[0:8])

	case common.MsgTListResp:
		count, rest, err := readCount(body, 8)
		if err != nil {
			return fmt.Errorf("list response: %w", err)
		}
		msg.SegmentIDs = make([]uint64, count)
		for i := range msg.SegmentIDs {
			msg.SegmentIDs[i] = binary.BigEndian.Uint64(rest[i*8 : i*8+8])
		}

	case common.MsgTMetadataResp:
		count, rest, err := readCount(body, 16)
		if err != nil {
			return fmt.Errorf("metadata response: %w", err)
		}
		msg.Objects = make([]segment.Metadata, count)
		for i := range msg.Objects {
			msg.Objects[i].ObjectID = binary.BigEndian.Uint64(rest[i*16 : i*16+8])
			msg.Objects[i].Version = binary.BigEndian.Uint64(rest[i*16+8 : i*16+16])
		}

	case common.MsgTRetrieveResp:
		count, rest, err := readCount(body, 1)
		if err != nil {
			return fmt.Errorf("retrieve response: %w", err)
		}
		msg.Data = append([]byte(nil), rest[:count]...)

	case common.MsgTErrorResp:
		count, rest, err := readCount(body, 1)
		if err != nil {
			return fmt.Errorf("error response: %w", err)
		}
		msg.Err = string(rest[:count])

	default:
		return fmt.Errorf("cannot decode message type %d", uint32(msgType))
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total frame size needed for serialization
func sizeBytes(msg *common.Message) (int, error) {
	switch msg.MsgType {
	case common.MsgTHeartbeatReq, common.MsgTHeartbeatResp,
		common.MsgTWriteResp, common.MsgTCommitResp, common.MsgTFreeResp,
		common.MsgTListReq:
		return headerBytes, nil
	case common.MsgTWriteReq:
		return common.WriteOverheadBytes + len(msg.Data), nil
	case common.MsgTCommitReq, common.MsgTFreeReq,
		common.MsgTMetadataReq, common.MsgTRetrieveReq:
		return headerBytes + 8, nil
	case common.MsgTListResp:
		return headerBytes + 4 + 8*len(msg.SegmentIDs), nil
	case common.MsgTMetadataResp:
		return headerBytes + 4 + 16*len(msg.Objects), nil
	case common.MsgTRetrieveResp:
		return headerBytes + 4 + len(msg.Data), nil
	case common.MsgTErrorResp:
		return headerBytes + 4 + len(msg.Err), nil
	default:
		return 0, fmt.Errorf("cannot encode message type %d", uint32(msg.MsgType))
	}
}

// readCount reads the leading uint32 element count of body and checks
// that exactly count*elemSize bytes follow it.
func readCount(body []byte, elemSize int) (int, []byte, error) {
	if len(body) < 4 {
		return 0, nil, fmt.Errorf("body of %d bytes is truncated", len(body))
	}
	count := int(binary.BigEndian.Uint32(body[0:4]))
	rest := body[4:]
	if count*elemSize != len(rest) {
		return 0, nil, fmt.Errorf("declared %d elements, body carries %d bytes", count, len(rest))
	}
	return count, rest, nil
}
