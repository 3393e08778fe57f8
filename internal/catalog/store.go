// Package catalog keeps records in a local pebble database, stored in Aleph
// Sequential form under their control number.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"marcserializer/pkg/alephseq"
	"marcserializer/pkg/marc"
)

const (
	recordPrefix = "rec/"
	batchPrefix  = "batch/"
)

var ErrNotFound = errors.New("record not found")

// Batch describes one completed import.
type Batch struct {
	ID    ksuid.KSUID
	Count int
}

type Store struct {
	db     *pebble.DB
	logger zerolog.Logger
}

// Open opens or creates the store in dir.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dir, err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores record under its identifier, replacing any earlier version.
func (s *Store) Put(record *marc.Record) (string, error) {
	id := alephseq.Identifier(record)
	text, err := alephseq.Encode(record)
	if err != nil {
		return "", fmt.Errorf("encode record %s: %w", id, err)
	}
	if err := s.db.Set(recordKey(id), []byte(text), pebble.Sync); err != nil {
		return "", fmt.Errorf("store record %s: %w", id, err)
	}
	return id, nil
}

func (s *Store) Get(id string) (*marc.Record, error) {
	data, closer, err := s.db.Get(recordKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", id, err)
	}
	text := string(data)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return decode(id, text)
}

// Import reads every record from r and stores them in a single pebble batch,
// together with a batch entry holding the record count. Nothing is stored
// when reading fails.
func (s *Store) Import(ctx context.Context, r io.Reader, opts ...alephseq.Option) (Batch, error) {
	b := s.db.NewBatch()
	defer b.Close()

	reader := alephseq.NewReader(r, opts...)
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("import record %d: %w", reader.Count(), err)
		}

		id := alephseq.Identifier(record)
		text, err := alephseq.Encode(record)
		if err != nil {
			return Batch{}, fmt.Errorf("encode record %s: %w", id, err)
		}
		if err := b.Set(recordKey(id), []byte(text), nil); err != nil {
			return Batch{}, err
		}
		count++
	}

	batch := Batch{ID: ksuid.New(), Count: count}
	if err := b.Set(batchKey(batch.ID), []byte(strconv.Itoa(count)), nil); err != nil {
		return Batch{}, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return Batch{}, fmt.Errorf("commit import: %w", err)
	}

	s.logger.Info().Str("batch", batch.ID.String()).Int("records", count).Msg("import committed")
	return batch, nil
}

// BatchCount returns the number of records stored by an import.
func (s *Store) BatchCount(id ksuid.KSUID) (int, error) {
	data, closer, err := s.db.Get(batchKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, fmt.Errorf("%w: batch %s", ErrNotFound, id)
	}
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	return strconv.Atoi(string(data))
}

// Export writes every stored record to w in identifier order and returns
// how many were written.
func (s *Store) Export(w io.Writer) (int, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(recordPrefix),
		UpperBound: prefixEnd(recordPrefix),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	count := 0
	for iter.First(); iter.Valid(); iter.Next() {
		if _, err := w.Write(iter.Value()); err != nil {
			return count, err
		}
		count++
	}
	return count, iter.Error()
}

func decode(id, text string) (*marc.Record, error) {
	record, err := alephseq.Decode(strings.Split(strings.TrimSuffix(text, "\n"), "\n"))
	if err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return record, nil
}

func recordKey(id string) []byte {
	return []byte(recordPrefix + id)
}

func batchKey(id ksuid.KSUID) []byte {
	return []byte(batchPrefix + id.String())
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
