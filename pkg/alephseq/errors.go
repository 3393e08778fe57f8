package alephseq

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLine     = errors.New("alephseq: malformed line")
	ErrContinuationParse = errors.New("alephseq: could not parse subfield 9 continuation line")
	ErrHalted            = errors.New("alephseq: stream halted after an earlier error")
	ErrMissingLeader     = errors.New("alephseq: record has no leader")
)

// MalformedLineError reports a line whose tag cannot be read.
type MalformedLineError struct {
	Line string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("could not parse tag from line: %q", e.Line)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// ContinuationParseError reports a continuation line whose first subfield is
// neither "9^" nor "9^^".
type ContinuationParseError struct {
	Line string
}

func (e *ContinuationParseError) Error() string {
	return fmt.Sprintf("could not parse subfield 9 continued line: %q", e.Line)
}

func (e *ContinuationParseError) Is(target error) bool {
	return target == ErrContinuationParse
}

// TransportError wraps an error returned by the underlying input.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("reading input: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
