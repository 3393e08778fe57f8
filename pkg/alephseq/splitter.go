package alephseq

import (
	"bytes"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"marcserializer/pkg/marc"
)

// Option configures a Splitter or Reader.
type Option func(*options)

type options struct {
	logger    zerolog.Logger
	chunkSize int
}

// DefaultChunkSize is the number of bytes a Reader requests per read.
const DefaultChunkSize = 32 * 1024

// WithLogger sets the logger used for record boundaries and failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithChunkSize sets how many bytes a Reader reads at a time.
func WithChunkSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:    zerolog.Nop(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Splitter turns chunks of Aleph Sequential text into records.
//
// Chunks may end anywhere, including inside a line or a multi-byte character.
// A record is complete once a line with a different identifier arrives, or when
// Finish is called. The first error halts the Splitter and discards anything
// buffered.
//
// A Splitter is not safe for concurrent use.
type Splitter struct {
	partial   []byte   // bytes after the last newline
	pending   []string // complete lines not yet assigned to a record
	currentID string
	haveID    bool
	count     int
	err       error
	logger    zerolog.Logger
}

// NewSplitter creates a Splitter for one stream.
func NewSplitter(opts ...Option) *Splitter {
	o := newOptions(opts)
	return &Splitter{logger: o.logger}
}

// Count returns the number of record batches formed so far, including a batch
// that failed to parse.
func (s *Splitter) Count() int {
	return s.count
}

// Feed consumes a chunk and returns the records it completed, in stream order.
// When an error is returned, the records returned alongside it were completed
// before the failure.
func (s *Splitter) Feed(chunk []byte) ([]*marc.Record, error) {
	if s.err != nil {
		return nil, ErrHalted
	}

	s.partial = append(s.partial, chunk...)
	for {
		pos := bytes.IndexByte(s.partial, '\n')
		if pos < 0 {
			break
		}
		s.pending = append(s.pending, string(s.partial[:pos]))
		s.partial = s.partial[pos+1:]
	}
	// Drop the consumed prefix so the buffer does not grow with the stream.
	s.partial = append([]byte(nil), s.partial...)

	return s.walk()
}

// Finish ends the stream. Remaining lines, including an unterminated last
// line, form the final record.
func (s *Splitter) Finish() ([]*marc.Record, error) {
	if s.err != nil {
		return nil, ErrHalted
	}

	if len(s.partial) > 0 {
		s.pending = append(s.pending, string(s.partial))
		s.partial = nil
	}
	if len(s.pending) == 0 {
		return nil, nil
	}

	batch := s.pending
	s.pending = nil
	record, err := s.build(batch)
	if err != nil {
		return nil, s.fail(err)
	}
	return []*marc.Record{record}, nil
}

// walk cuts pending lines into records at every identifier change.
func (s *Splitter) walk() ([]*marc.Record, error) {
	if len(s.pending) == 0 {
		return nil, nil
	}
	if !s.haveID {
		s.currentID = recordID(s.pending[0])
		s.haveID = true
	}

	var records []*marc.Record
	for i := 0; i < len(s.pending); i++ {
		line := s.pending[i]
		// Too short to tell; wait for more input.
		// TODO: a stray short line that is not followed by end of input stalls every later record.
		if utf8.RuneCountInString(line) < minBoundaryLineLength {
			break
		}

		id := recordID(line)
		if id == s.currentID {
			continue
		}

		batch := s.pending[:i:i]
		s.pending = s.pending[i:]
		record, err := s.build(batch)
		if err != nil {
			return records, s.fail(err)
		}
		records = append(records, record)

		// The new first line carries the current identifier; resume after it.
		s.currentID = id
		i = 0
	}

	return records, nil
}

func (s *Splitter) build(batch []string) (*marc.Record, error) {
	s.count++
	record, err := Decode(batch)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("record", s.count).
		Str("id", recordID(batch[0])).
		Int("lines", len(batch)).
		Msg("record decoded")
	return record, nil
}

func (s *Splitter) fail(err error) error {
	s.err = err
	s.partial = nil
	s.pending = nil
	s.logger.Error().Err(err).Int("record", s.count).Msg("aleph sequential parse failed")
	return err
}
