package segment

import (
	"bytes"
	"testing"
)

// TestAppendWalkRoundTrip verifies records survive an append/walk cycle
// in order and without corruption
func TestAppendWalkRoundTrip(t *testing.T) {
	records := []Record{
		{ObjectID: 1, Version: 1, Data: []byte("first value")},
		{ObjectID: 42, Version: 7, Data: nil},
		{ObjectID: 1, Version: 2, Data: []byte("overwritten value")},
	}

	var buf []byte
	for _, rec := range records {
		buf = Append(buf, rec)
	}

	var got []Record
	err := Walk(buf, func(rec Record) error {
		// Copy the payload: Walk's slice aliases the segment.
		got = append(got, Record{
			ObjectID: rec.ObjectID,
			Version:  rec.Version,
			Data:     append([]byte(nil), rec.Data...),
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i, rec := range records {
		if got[i].ObjectID != rec.ObjectID || got[i].Version != rec.Version {
			t.Errorf("record %d: expected (%d, %d), got (%d, %d)",
				i, rec.ObjectID, rec.Version, got[i].ObjectID, got[i].Version)
		}
		if !bytes.Equal(got[i].Data, rec.Data) {
			t.Errorf("record %d: payload mismatch", i)
		}
	}
}

// TestWalkTruncated verifies both truncation cases: mid-header and mid-payload
func TestWalkTruncated(t *testing.T) {
	buf := Append(nil, Record{ObjectID: 9, Version: 3, Data: []byte("payload")})

	for _, cut := range []int{recordOverhead - 1, len(buf) - 1} {
		err := Walk(buf[:cut], func(Record) error { return nil })
		if err == nil {
			t.Errorf("Walk of %d/%d bytes: expected error, got nil", cut, len(buf))
		}
	}
}

// TestExtractMetadata verifies the recovery view of a segment
func TestExtractMetadata(t *testing.T) {
	var buf []byte
	buf = Append(buf, Record{ObjectID: 10, Version: 1, Data: []byte("a")})
	buf = Append(buf, Record{ObjectID: 11, Version: 4, Data: []byte("bb")})

	list, err := ExtractMetadata(buf)
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	expected := []Metadata{{10, 1}, {11, 4}}
	if len(list) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(list))
	}
	for i, meta := range expected {
		if list[i] != meta {
			t.Errorf("entry %d: expected %+v, got %+v", i, meta, list[i])
		}
	}

	// An empty segment has no recoverable objects.
	list, err = ExtractMetadata(nil)
	if err != nil {
		t.Fatalf("ExtractMetadata(nil): %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no entries for empty segment, got %d", len(list))
	}
}
