// Package marc holds the in-memory bibliographic record: a leader plus an
// ordered list of control and data fields.
package marc

import (
	"strings"
)

// Subfield is one coded element of a data field.
type Subfield struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}

// Field is either a control field (Value only) or a data field (indicators
// and subfields). The kind is fixed when the field is built.
type Field struct {
	Tag       string
	Value     string
	Ind1      string
	Ind2      string
	Subfields []Subfield

	control bool
}

// NewControlField builds a field that carries a single raw value.
func NewControlField(tag, value string) Field {
	return Field{Tag: tag, Value: value, control: true}
}

// NewDataField builds a field with indicators and subfields. Empty
// indicators are stored as a single space.
func NewDataField(tag, ind1, ind2 string, subfields ...Subfield) Field {
	return Field{
		Tag:       tag,
		Ind1:      defaultIndicator(ind1),
		Ind2:      defaultIndicator(ind2),
		Subfields: subfields,
	}
}

// IsControl reports whether the field is a control field.
func (f Field) IsControl() bool {
	return f.control
}

func defaultIndicator(ind string) string {
	if ind == "" {
		return " "
	}
	return ind
}

// Record is a leader and its fields in insertion order.
type Record struct {
	Leader string
	fields []Field
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

// SetLeader replaces the leader.
func (r *Record) SetLeader(leader string) {
	r.Leader = leader
}

// AppendField adds a field after the existing ones.
func (r *Record) AppendField(f Field) {
	r.fields = append(r.fields, f)
}

// Fields returns the fields in insertion order. The slice must not be modified.
func (r *Record) Fields() []Field {
	return r.fields
}

// Get returns all fields with the given tag, in order.
func (r *Record) Get(tag string) []Field {
	var result []Field
	for _, f := range r.fields {
		if f.Tag == tag {
			result = append(result, f)
		}
	}
	return result
}

// First returns the first field with the given tag.
func (r *Record) First(tag string) (Field, bool) {
	for _, f := range r.fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}

// String renders the record in the human-readable line form:
//
//	LDR    01234cam a2200301 i 4500
//	001    000000001
//	245 10 ‡aTitle‡bsubtitle
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("LDR    ")
	b.WriteString(r.Leader)
	b.WriteByte('\n')
	for _, f := range r.fields {
		b.WriteString(f.Tag)
		b.WriteByte(' ')
		if f.control {
			b.WriteString("   ")
			b.WriteString(f.Value)
		} else {
			b.WriteString(defaultIndicator(f.Ind1))
			b.WriteString(defaultIndicator(f.Ind2))
			b.WriteByte(' ')
			for _, sf := range f.Subfields {
				b.WriteString("‡")
				b.WriteString(sf.Code)
				b.WriteString(sf.Value)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
