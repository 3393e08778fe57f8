package alephseq

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"marcserializer/pkg/marc"
)

// EventKind tells what an Event carries.
type EventKind int

const (
	// EventRecord carries one decoded record.
	EventRecord EventKind = iota
	// EventEnd is sent once the input is exhausted without error.
	EventEnd
	// EventError carries the error that stopped the stream.
	EventError
)

// Event is emitted on the channel returned by Reader.Channel.
type Event struct {
	Kind   EventKind
	Record *marc.Record
	Err    error
}

// Reader decodes records from an io.Reader.
type Reader struct {
	src       io.Reader
	splitter  *Splitter
	chunkSize int
	logger    zerolog.Logger

	queue []*marc.Record
	done  bool
	err   error
}

// NewReader creates a Reader which reads chunks from r and splits them into
// records.
func NewReader(r io.Reader, opts ...Option) *Reader {
	o := newOptions(opts)
	return &Reader{
		src:       r,
		splitter:  NewSplitter(opts...),
		chunkSize: o.chunkSize,
		logger:    o.logger,
	}
}

// Count returns the number of records seen so far.
func (r *Reader) Count() int {
	return r.splitter.Count()
}

// Next returns the next record. It returns io.EOF once the input is exhausted.
// Any other error is final: later calls return the same error.
func (r *Reader) Next() (*marc.Record, error) {
	for {
		if len(r.queue) > 0 {
			record := r.queue[0]
			r.queue = r.queue[1:]
			return record, nil
		}
		if r.err != nil {
			return nil, r.err
		}
		if r.done {
			return nil, io.EOF
		}
		r.fill()
	}
}

// fill reads one chunk and queues the records it completes.
func (r *Reader) fill() {
	buf := make([]byte, r.chunkSize)
	n, err := r.src.Read(buf)
	if n > 0 {
		records, feedErr := r.splitter.Feed(buf[:n])
		r.queue = append(r.queue, records...)
		if feedErr != nil {
			r.err = feedErr
			return
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		records, finishErr := r.splitter.Finish()
		r.queue = append(r.queue, records...)
		if finishErr != nil {
			r.err = finishErr
			return
		}
		r.done = true
		r.logger.Debug().Int("records", r.splitter.Count()).Msg("end of input")
	default:
		r.err = &TransportError{Err: err}
		r.logger.Error().Err(err).Msg("input failed")
	}
}

// Channel returns a channel which emits one EventRecord per record followed by
// exactly one EventEnd or EventError. The channel is closed afterwards.
func (r *Reader) Channel() <-chan Event {
	channel := make(chan Event)
	go r.readToChannel(channel)
	return channel
}

func (r *Reader) readToChannel(channel chan<- Event) {
	defer close(channel)
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			channel <- Event{Kind: EventEnd}
			return
		}
		if err != nil {
			channel <- Event{Kind: EventError, Err: err}
			return
		}
		channel <- Event{Kind: EventRecord, Record: record}
	}
}

// ReadAll decodes every record from r.
func ReadAll(r io.Reader, opts ...Option) ([]*marc.Record, error) {
	reader := NewReader(r, opts...)
	var records []*marc.Record
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}
