// Package index keeps a sidecar database of feature byte offsets. A first
// pass over a multi-gigabyte export records where every feature starts;
// later runs can jump straight to feature N instead of re-scanning from
// the top.
package index

import (
	"encoding/binary"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/mkor/wildstream/geojson"
)

// Index is a bolt-backed map of feature ordinal to byte offset, bucketed
// by dataset path so one sidecar file can cover several exports.
type Index struct {
	db *bolt.DB
}

// Open opens or creates the index file at path.
func Open(path string) (*Index, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening index %q", path)
	}
	return &Index{db: db}, nil
}

// Close releases the index file and its lock.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Build drains the reader from its current position, recording the offset
// each feature was scanned from under the reader's dataset path. It
// returns the number of features indexed. The reader is left exhausted;
// Rewind it to reuse it.
func (ix *Index) Build(r *geojson.Reader) (int, error) {
	dataset := r.Path()
	if dataset == "" {
		return 0, errors.New("index: reader is not open")
	}

	count := 0
	err := ix.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(dataset))
		if err != nil {
			return err
		}

		for {
			offset := r.Offset()
			_, ok, err := r.NextRaw()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := bucket.Put(ordinalKey(uint64(count)), offsetValue(offset)); err != nil {
				return err
			}
			count++
		}
	})
	if err != nil {
		return 0, errors.Wrapf(err, "indexing %q", dataset)
	}
	return count, nil
}

// Offset looks up where feature n of the dataset starts. ok is false when
// the dataset or ordinal is not indexed.
func (ix *Index) Offset(dataset string, n uint64) (offset int64, ok bool, err error) {
	err = ix.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(dataset))
		if bucket == nil {
			return nil
		}
		value := bucket.Get(ordinalKey(n))
		if value == nil {
			return nil
		}
		offset = int64(binary.BigEndian.Uint64(value))
		ok = true
		return nil
	})
	if err != nil {
		return 0, false, errors.Wrapf(err, "looking up feature %d of %q", n, dataset)
	}
	return offset, ok, nil
}

// Count returns how many features are indexed for the dataset.
func (ix *Index) Count(dataset string) (int, error) {
	var count int
	err := ix.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(dataset))
		if bucket == nil {
			return nil
		}
		count = bucket.Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "counting features of %q", dataset)
	}
	return count, nil
}

// Keys sort byte-wise in ordinal order thanks to the big-endian encoding.
func ordinalKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

func offsetValue(offset int64) []byte {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(offset))
	return value
}
