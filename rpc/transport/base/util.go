package base

import (
	"encoding/binary"
	"io"
	"net"
)

// The stream transports carry one protocol frame per transport frame:
// - 4 bytes: payload length (uint32, big endian)
// - N bytes: payload
// This outer framing is what preserves message boundaries on a byte
// stream; the protocol's own header sits inside the payload.

// writeFrame writes one complete message to the connection
func writeFrame(conn net.Conn, data []byte) error {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// readFrame reads one complete message from the connection. The
// returned slice is freshly allocated and owned by the caller.
func readFrame(conn net.Conn) ([]byte, error) {
	header := make([]byte, 4)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header)
	if contentLength == 0 {
		return []byte{}, nil
	}

	data := make([]byte, contentLength)
	if _, err := io.ReadFull(conn, data); err != nil {
		return nil, err
	}
	return data, nil
}
