// Package alephseq reads and writes bibliographic records in the Aleph
// Sequential line format.
//
// # Line Format
//
// Every line of a record looks like:
//
//	id tag ind1 ind2 L payload
//
// with fixed character offsets:
//
//	000000001 245 1 L $$aTitle$$bsubtitle
//	|         |  || | |
//	0         10 |14| 18
//	             13 16
//
// Fields:
//   - id: everything before the first space. All lines of one record share it;
//     a new value starts a new record. Its content is otherwise opaque.
//   - tag: three characters at offset 10.
//   - ind1, ind2: indicator characters at offsets 13 and 14 (data fields only).
//   - L: a constant marker at offset 16.
//   - payload: text from offset 18 to the end of the line.
//
// Fixed fields (FMT, 001-009) and LDR carry their payload as raw text. All other
// tags are data fields whose payload is a sequence of subfields, each written
// as "$$" followed by a one character code and the value.
//
// FMT lines are generated on write from the leader (see Classify) and dropped
// on read. LDR carries the leader.
//
// # Continuation Lines
//
// Aleph caps the payload of a line, so the writer splits data fields whose
// payload exceeds 2000 bytes into lines of at most 1000 bytes. Every line after
// the first starts with a subfield 9 marker:
//
//	000000001 520   L $$aFirst part of a long note. More text.^
//	000000001 520   L $$9^^$$aSecond part after a sentence break
//	000000001 520   L $$9^$$bA new subfield that did not fit
//
//   - "$$9^" continues directly with a new subfield.
//   - "$$9^^$$<code>" resumes the text of a subfield that was cut. A trailing
//     space at the cut is written as "^", and restored on read.
//
// The reader folds continuation lines back into the preceding line before the
// field is parsed, so they never show up as fields of the decoded record.
//
// # Record Boundaries
//
// Splitter is a push driven state machine which accepts chunks of any size and
// emits a record each time the identifier changes. Reader drives a Splitter
// from an io.Reader. Any parse failure stops the stream: no further records are
// emitted after the first error.
package alephseq
