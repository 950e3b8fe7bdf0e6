package server

import (
	"encoding/binary"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/jcarreira/ramcloud/lib/segment"
	"github.com/jcarreira/ramcloud/rpc/common"
)

// Key layout: one data entry and one state entry per segment. The
// state entry doubles as the existence marker.
var (
	keyPrefixData  = []byte("seg/data/")
	keyPrefixState = []byte("seg/state/")
)

const (
	stateWritten   byte = 0
	stateCommitted byte = 1
)

func keySegmentData(segmentID uint64) []byte {
	key := make([]byte, len(keyPrefixData)+8)
	copy(key, keyPrefixData)
	binary.BigEndian.PutUint64(key[len(keyPrefixData):], segmentID)
	return key
}

func keySegmentState(segmentID uint64) []byte {
	key := make([]byte, len(keyPrefixState)+8)
	copy(key, keyPrefixState)
	binary.BigEndian.PutUint64(key[len(keyPrefixState):], segmentID)
	return key
}

// badgerSegmentStore persists segments in a badger database so a
// backup survives restarts.
type badgerSegmentStore struct {
	db *badgerdb.DB
}

// NewBadgerSegmentStore opens (or creates) a badger-backed segment
// store in the given directory.
func NewBadgerSegmentStore(dataDir string) (ISegmentStore, error) {
	db, err := badgerdb.Open(badgerdb.DefaultOptions(dataDir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store in %s: %w", dataDir, err)
	}
	return &badgerSegmentStore{db: db}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (s *badgerSegmentStore) Write(segmentID uint64, offset uint32, data []byte) error {
	if int(offset)+len(data) > common.SegmentBytes {
		return fmt.Errorf("write past segment bound: offset %d + %d bytes > %d",
			offset, len(data), common.SegmentBytes)
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		// A missing state entry means this is the segment's first
		// write; any other failure must abort the write.
		state, err := segmentState(txn, segmentID)
		if err != nil && !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}
		if err == nil && state == stateCommitted {
			return fmt.Errorf("segment %d is committed, cannot write", segmentID)
		}

		// Load the current content, first write starts empty
		var existing []byte
		item, err := txn.Get(keySegmentData(segmentID))
		if err == nil {
			existing, err = item.ValueCopy(nil)
			if err != nil {
				return err
			}
		} else if err != badgerdb.ErrKeyNotFound {
			return err
		}

		if end := int(offset) + len(data); end > len(existing) {
			grown := make([]byte, end)
			copy(grown, existing)
			existing = grown
		}
		copy(existing[offset:], data)

		if err := txn.Set(keySegmentData(segmentID), existing); err != nil {
			return err
		}
		return txn.Set(keySegmentState(segmentID), []byte{stateWritten})
	})
}

func (s *badgerSegmentStore) Commit(segmentID uint64) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := segmentState(txn, segmentID); err != nil {
			return err
		}
		return txn.Set(keySegmentState(segmentID), []byte{stateCommitted})
	})
}

func (s *badgerSegmentStore) Free(segmentID uint64) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := segmentState(txn, segmentID); err != nil {
			return err
		}
		if err := txn.Delete(keySegmentData(segmentID)); err != nil {
			return err
		}
		return txn.Delete(keySegmentState(segmentID))
	})
}

func (s *badgerSegmentStore) List() ([]uint64, error) {
	var ids []uint64
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = keyPrefixState

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			ids = append(ids, binary.BigEndian.Uint64(key[len(keyPrefixState):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *badgerSegmentStore) Metadata(segmentID uint64) ([]segment.Metadata, error) {
	data, err := s.committedData(segmentID)
	if err != nil {
		return nil, err
	}
	return segment.ExtractMetadata(data)
}

func (s *badgerSegmentStore) Retrieve(segmentID uint64) ([]byte, error) {
	return s.committedData(segmentID)
}

func (s *badgerSegmentStore) Close() error {
	return s.db.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// segmentState reads a segment's lifecycle state, failing if the
// segment does not exist
func segmentState(txn *badgerdb.Txn, segmentID uint64) (byte, error) {
	item, err := txn.Get(keySegmentState(segmentID))
	if err == badgerdb.ErrKeyNotFound {
		return 0, fmt.Errorf("segment %d does not exist: %w", segmentID, badgerdb.ErrKeyNotFound)
	}
	if err != nil {
		return 0, err
	}

	var state byte
	err = item.Value(func(val []byte) error {
		if len(val) != 1 {
			return fmt.Errorf("segment %d has a malformed state entry", segmentID)
		}
		state = val[0]
		return nil
	})
	return state, err
}

// committedData returns the content of a committed segment
func (s *badgerSegmentStore) committedData(segmentID uint64) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		state, err := segmentState(txn, segmentID)
		if err != nil {
			return err
		}
		if state != stateCommitted {
			return fmt.Errorf("segment %d is not committed", segmentID)
		}

		item, err := txn.Get(keySegmentData(segmentID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
