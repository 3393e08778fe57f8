package alephseq

import (
	"strings"
	"unicode/utf8"

	"marcserializer/pkg/marc"
)

// Character offsets of an Aleph Sequential line.
const (
	tagOffset     = 10
	tagLength     = 3
	ind1Offset    = 13
	ind2Offset    = 14
	payloadOffset = 18

	// Offsets of the continued text in "$$9^" and "$$9^^$$<code>" lines.
	wordContinuationOffset     = 22
	subfieldContinuationOffset = 26

	// Lines shorter than this are not inspected for a record identifier.
	minBoundaryLineLength = 9
)

const (
	subfieldMarker = "$$"
	formatTag      = "FMT"
	leaderTag      = "LDR"
	controlNumber  = "001"
	placeholderID  = "000000000"
)

var fixedFieldTags = map[string]bool{
	"FMT": true,
	"001": true, "002": true, "003": true, "004": true, "005": true,
	"006": true, "007": true, "008": true, "009": true,
}

// IsFixedFieldTag reports whether tag carries raw text instead of subfields.
// LDR is handled separately.
func IsFixedFieldTag(tag string) bool {
	return fixedFieldTags[tag]
}

// ParseLine parses one physical line. Fixed fields and LDR become control
// fields holding the payload; every other tag becomes a data field.
func ParseLine(line string) (marc.Field, error) {
	tag := substr(line, tagOffset, tagLength)
	if utf8.RuneCountInString(tag) != tagLength {
		return marc.Field{}, &MalformedLineError{Line: line}
	}

	payload := substrFrom(line, payloadOffset)
	if IsFixedFieldTag(tag) || tag == leaderTag {
		return marc.NewControlField(tag, payload), nil
	}

	ind1 := substr(line, ind1Offset, 1)
	ind2 := substr(line, ind2Offset, 1)
	return marc.NewDataField(tag, ind1, ind2, parseSubfields(payload)...), nil
}

// parseSubfields splits "$$aone$$btwo" into coded subfields. Empty segments
// are skipped.
func parseSubfields(payload string) []marc.Subfield {
	var subfields []marc.Subfield
	for _, segment := range strings.Split(payload, subfieldMarker) {
		if segment == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(segment)
		subfields = append(subfields, marc.Subfield{
			Code:  segment[:size],
			Value: segment[size:],
		})
	}
	return subfields
}

// recordID returns the leading token of a line.
func recordID(line string) string {
	id, _, _ := strings.Cut(line, " ")
	return id
}

// charOffset returns the byte offset of the n-th character of s, or -1 when s
// has fewer than n characters.
func charOffset(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	if count == n {
		return len(s)
	}
	return -1
}

// substrFrom returns s from character n to the end.
func substrFrom(s string, n int) string {
	start := charOffset(s, n)
	if start < 0 {
		return ""
	}
	return s[start:]
}

// substr returns up to length characters of s starting at character n.
func substr(s string, n, length int) string {
	rest := substrFrom(s, n)
	end := charOffset(rest, length)
	if end < 0 {
		return rest
	}
	return rest[:end]
}
