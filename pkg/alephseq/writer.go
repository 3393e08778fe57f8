package alephseq

import (
	"io"
	"strings"

	"marcserializer/pkg/marc"
)

// Encode renders a record as Aleph Sequential text: a generated FMT line, the
// LDR line and one or more lines per field, each terminated by a newline.
//
// The line identifier is the value of the first 001 field, or 000000000 when
// the record has none.
func Encode(record *marc.Record) (string, error) {
	if record.Leader == "" {
		return "", ErrMissingLeader
	}

	id := Identifier(record)

	var b strings.Builder
	writeControlLine(&b, id, formatTag, string(Classify(record.Leader)))
	writeControlLine(&b, id, leaderTag, record.Leader)
	for _, field := range record.Fields() {
		if field.IsControl() {
			writeControlLine(&b, id, field.Tag, field.Value)
			continue
		}
		writeDataLines(&b, id, field)
	}
	return b.String(), nil
}

// Identifier returns the line identifier used for record: the first 001
// value, or 000000000.
func Identifier(record *marc.Record) string {
	if f, ok := record.First(controlNumber); ok {
		return f.Value
	}
	return placeholderID
}

func writeControlLine(b *strings.Builder, id, tag, value string) {
	b.WriteString(id)
	b.WriteByte(' ')
	b.WriteString(tag)
	b.WriteString("   L ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func writeDataLines(b *strings.Builder, id string, field marc.Field) {
	header := id + " " + field.Tag + indicator(field.Ind1) + indicator(field.Ind2) + " L "

	segments := make([][]byte, len(field.Subfields))
	total := 0
	for i, sf := range field.Subfields {
		if sf.Code != "" || sf.Value != "" {
			segments[i] = []byte(subfieldMarker + sf.Code + sf.Value)
		}
		total += len(segments[i])
	}

	if total <= maxFieldLength {
		b.WriteString(header)
		for _, segment := range segments {
			b.Write(segment)
		}
		b.WriteByte('\n')
		return
	}

	for _, line := range splitSegments(segments) {
		b.WriteString(header)
		// A hard cut may fall inside a multi-byte character.
		b.WriteString(strings.ToValidUTF8(string(line), "\uFFFD"))
		b.WriteByte('\n')
	}
}

func indicator(ind string) string {
	if ind == "" {
		return " "
	}
	return ind
}

// Writer writes records to an io.Writer in Aleph Sequential form.
type Writer struct {
	w     io.Writer
	count int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes one record and writes it.
func (w *Writer) Write(record *marc.Record) error {
	text, err := Encode(record)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w.w, text); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}
