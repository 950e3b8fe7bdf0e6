package segment

import (
	"encoding/binary"
	"fmt"
)

// recordOverhead is the fixed number of bytes preceding each record's
// payload: objectId (8) + version (8) + payload length (4).
const recordOverhead = 8 + 8 + 4

// Record is one object stored in a segment.
type Record struct {
	ObjectID uint64
	Version  uint64
	Data     []byte
}

// Metadata identifies one object of a committed segment for recovery
// purposes: which object it is and which version the segment holds.
type Metadata struct {
	ObjectID uint64
	Version  uint64
}

// Append encodes rec at the end of buf and returns the extended slice.
func Append(buf []byte, rec Record) []byte {
	var hdr [recordOverhead]byte
	binary.BigEndian.PutUint64(hdr[0:8], rec.ObjectID)
	binary.BigEndian.PutUint64(hdr[8:16], rec.Version)
	binary.BigEndian.PutUint32(hdr[16:20], uint32(len(rec.Data)))
	buf = append(buf, hdr[:]...)
	return append(buf, rec.Data...)
}

// Walk iterates over all records in data, calling fn for each. The
// Data slice passed to fn aliases data and must not be retained. Walk
// stops at the first malformed record or at the first error returned
// by fn.
func Walk(data []byte, fn func(rec Record) error) error {
	pos := 0
	for pos < len(data) {
		if pos+recordOverhead > len(data) {
			return fmt.Errorf("truncated record header at offset %d", pos)
		}
		rec := Record{
			ObjectID: binary.BigEndian.Uint64(data[pos : pos+8]),
			Version:  binary.BigEndian.Uint64(data[pos+8 : pos+16]),
		}
		payloadLen := int(binary.BigEndian.Uint32(data[pos+16 : pos+20]))
		pos += recordOverhead

		if pos+payloadLen > len(data) {
			return fmt.Errorf("truncated record payload at offset %d", pos)
		}
		rec.Data = data[pos : pos+payloadLen]
		pos += payloadLen

		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// ExtractMetadata walks a committed segment and returns the recovery
// metadata of every record it contains, in segment order.
func ExtractMetadata(data []byte) ([]Metadata, error) {
	var list []Metadata
	err := Walk(data, func(rec Record) error {
		list = append(list, Metadata{ObjectID: rec.ObjectID, Version: rec.Version})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
