package alephseq

import (
	"strings"

	"marcserializer/pkg/marc"
)

const (
	continuationCode   = "9"
	wordContinuation   = "^"
	resumeContinuation = "^^"
)

// isContinuationLine reports whether line continues the line before it: a
// data field whose first subfield is 9 with the value "^" or "^^".
func isContinuationLine(line string) (bool, error) {
	field, err := ParseLine(line)
	if err != nil {
		return false, err
	}
	if field.IsControl() || len(field.Subfields) == 0 {
		return false, nil
	}
	first := field.Subfields[0]
	return first.Code == continuationCode &&
		(first.Value == wordContinuation || first.Value == resumeContinuation), nil
}

// ContinuationText returns the text a continuation line adds to the line it
// continues. A "$$9^^" line resumes a cut subfield after a space; a "$$9^"
// line appends the rest of the line as is.
func ContinuationText(line string) (string, error) {
	field, err := ParseLine(line)
	if err != nil {
		return "", err
	}
	if field.IsControl() || len(field.Subfields) == 0 {
		return "", &ContinuationParseError{Line: line}
	}

	switch field.Subfields[0].Value {
	case wordContinuation:
		return substrFrom(line, wordContinuationOffset), nil
	case resumeContinuation:
		return " " + substrFrom(line, subfieldContinuationOffset), nil
	default:
		return "", &ContinuationParseError{Line: line}
	}
}

// MergeContinuations folds continuation lines into the line they continue.
// The input belongs to a single record and is not modified.
func MergeContinuations(lines []string) ([]string, error) {
	merged := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		current := lines[i]

		// Keep absorbing following lines until one is not a continuation.
		for i+1 < len(lines) {
			next := lines[i+1]
			ok, err := isContinuationLine(next)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}

			text, err := ContinuationText(next)
			if err != nil {
				return nil, err
			}
			current = strings.TrimSuffix(current, "^") + text
			i++
		}

		merged = append(merged, current)
	}

	return merged, nil
}

// Decode builds a record from the lines of one record. Continuation lines are
// merged first; FMT lines are dropped and LDR sets the leader.
func Decode(lines []string) (*marc.Record, error) {
	merged, err := MergeContinuations(lines)
	if err != nil {
		return nil, err
	}

	record := marc.NewRecord()
	for _, line := range merged {
		field, err := ParseLine(line)
		if err != nil {
			return nil, err
		}

		switch field.Tag {
		case formatTag:
			// Generated from the leader on write.
		case leaderTag:
			record.SetLeader(field.Value)
		default:
			record.AppendField(field)
		}
	}

	return record, nil
}
