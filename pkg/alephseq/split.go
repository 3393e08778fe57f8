package alephseq

import (
	"bytes"
	"unicode/utf8"
)

const (
	// Payloads up to this many bytes are written on a single line.
	maxFieldLength = 2000
	// Lines produced by splitting carry at most this many payload bytes.
	splitLineLength = 1000
)

var (
	wordContinuationPrefix = []byte(subfieldMarker + continuationCode + wordContinuation)
	resumePrefix           = []byte(subfieldMarker + continuationCode + resumeContinuation + subfieldMarker)
)

// splitSegments lays the encoded subfields of one data field out over several
// payload lines.
//
// Whole segments are packed while the line stays within maxFieldLength. A
// segment that does not fit starts a new line and is cut into pieces of at most
// splitLineLength bytes. Every line after the first of the field is marked as a
// continuation: "$$9^" when it starts with a fresh subfield, "$$9^^$$<code>"
// when it resumes the text of the subfield that was cut.
func splitSegments(segments [][]byte) [][]byte {
	var lines [][]byte
	var pending []byte

	for i, segment := range segments {
		if len(pending)+len(segment) <= maxFieldLength {
			pending = append(pending, segment...)
			continue
		}

		if len(pending) > 0 {
			lines = append(lines, pending)
			pending = nil
		}

		code := segmentCode(segment)
		rest := segment
		// Only the first segment of a field opens the field's first line.
		prefixed := i == 0
		for {
			if !prefixed {
				rest = withContinuationPrefix(rest, code)
			}
			prefixed = false

			if len(rest) <= splitLineLength {
				pending = append([]byte(nil), rest...)
				break
			}

			cut := cutOffset(rest)
			piece := append([]byte(nil), rest[:cut]...)
			if piece[len(piece)-1] == ' ' {
				piece[len(piece)-1] = '^'
			}
			lines = append(lines, piece)
			rest = rest[cut:]
		}
	}

	if pending != nil {
		lines = append(lines, pending)
	}
	return lines
}

// segmentCode returns the subfield code of an encoded "$$<code><value>" segment.
func segmentCode(segment []byte) []byte {
	if len(segment) <= len(subfieldMarker) {
		return nil
	}
	_, size := utf8.DecodeRune(segment[len(subfieldMarker):])
	return segment[len(subfieldMarker) : len(subfieldMarker)+size]
}

func withContinuationPrefix(rest, code []byte) []byte {
	var prefix []byte
	if bytes.HasPrefix(rest, []byte(subfieldMarker)) {
		prefix = wordContinuationPrefix
	} else {
		prefix = append(append([]byte(nil), resumePrefix...), code...)
	}

	prefixed := make([]byte, 0, len(prefix)+len(rest))
	prefixed = append(prefixed, prefix...)
	return append(prefixed, rest...)
}

// cutOffset picks where to end the next piece of b: after the last "-- "
// that fits, else after the last ". " that fits, else at splitLineLength.
func cutOffset(b []byte) int {
	if offset, ok := separatorCut(b, '-', 3); ok {
		return offset
	}
	if offset, ok := separatorCut(b, '.', 2); ok {
		return offset
	}
	return splitLineLength
}

// separatorCut finds the last separator whose end lies within splitLineLength
// bytes and returns the offset just past it.
func separatorCut(b []byte, mark byte, width int) (int, bool) {
	for {
		start, ok := lastSeparator(b, mark, width)
		if !ok {
			return 0, false
		}
		if start+width <= splitLineLength {
			return start + width, true
		}
		b = b[:start]
	}
}

// lastSeparator scans b backwards for width-1 mark bytes followed by a space
// and returns the position of the first mark byte. The final byte of b is not
// considered.
func lastSeparator(b []byte, mark byte, width int) (int, bool) {
	found := 0
	for i := len(b) - 2; i >= 0; i-- {
		switch {
		case found == 0 && b[i] == ' ':
			found++
		case found > 0 && b[i] == mark:
			found++
		default:
			found = 0
		}
		if found == width {
			return i, true
		}
	}
	return 0, false
}
