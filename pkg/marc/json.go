package marc

import (
	"encoding/json"
	"fmt"
)

type jsonField struct {
	Tag       string     `json:"tag"`
	Value     *string    `json:"value,omitempty"`
	Ind1      string     `json:"ind1,omitempty"`
	Ind2      string     `json:"ind2,omitempty"`
	Subfields []Subfield `json:"subfields,omitempty"`
}

type jsonRecord struct {
	Leader string      `json:"leader"`
	Fields []jsonField `json:"fields"`
}

// MarshalJSON projects the record as {"leader": ..., "fields": [...]}.
// Control fields carry "value", data fields carry indicators and subfields.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := jsonRecord{Leader: r.Leader, Fields: make([]jsonField, 0, len(r.fields))}
	for _, f := range r.fields {
		if f.control {
			value := f.Value
			out.Fields = append(out.Fields, jsonField{Tag: f.Tag, Value: &value})
			continue
		}
		subfields := f.Subfields
		if subfields == nil {
			subfields = []Subfield{}
		}
		out.Fields = append(out.Fields, jsonField{
			Tag:       f.Tag,
			Ind1:      defaultIndicator(f.Ind1),
			Ind2:      defaultIndicator(f.Ind2),
			Subfields: subfields,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the projection written by MarshalJSON.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in jsonRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Leader = in.Leader
	r.fields = r.fields[:0]
	for i, f := range in.Fields {
		if len(f.Tag) != 3 {
			return fmt.Errorf("field %d: invalid tag %q", i, f.Tag)
		}
		if f.Value != nil {
			r.fields = append(r.fields, NewControlField(f.Tag, *f.Value))
			continue
		}
		r.fields = append(r.fields, NewDataField(f.Tag, f.Ind1, f.Ind2, f.Subfields...))
	}
	return nil
}
