package user

import (
	"bytes"
	"encoding/json"
	"math"
)

const interestsShapeMsg = "interests must be an array of strings"

// wirePayload mirrors the JSON body. Every field is decoded lazily so a wrong
// shape becomes a field violation instead of a decoder failure.
type wirePayload struct {
	Name      json.RawMessage `json:"name"`
	Email     json.RawMessage `json:"email"`
	Age       json.RawMessage `json:"age"`
	Mobile    json.RawMessage `json:"mobile"`
	Interests json.RawMessage `json:"interests"`
	// Interest is the legacy key, read only when interests is absent.
	Interest json.RawMessage `json:"interest"`
}

// UnmarshalJSON decodes a request body. The canonical interests form is an
// array of strings; a delimited string is rejected, not split.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Payload{}

	p.Name = decodeString(p, "name", w.Name)
	p.Email = decodeString(p, "email", w.Email)
	p.Age = decodePositiveInt(p, "age", w.Age)
	p.Mobile = decodePositiveInt(p, "mobile", w.Mobile)

	raw := w.Interests
	if isAbsent(raw) {
		raw = w.Interest
	}
	p.Interests = decodeInterests(p, raw)

	return nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeString(p *Payload, field string, raw json.RawMessage) string {
	if isAbsent(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		p.addDecodeErr(field, field+" must be a string")
		return ""
	}
	return s
}

// decodePositiveInt accepts integral JSON numbers only (22 and 22.0, not 22.5 or "22").
// A present but unusable value is recorded and returned as zero so the rule
// set still reports the field in order.
func decodePositiveInt(p *Payload, field string, raw json.RawMessage) *int64 {
	if isAbsent(raw) {
		return nil
	}
	// json.Number would happily accept a quoted number
	if bytes.TrimSpace(raw)[0] == '"' {
		return invalidInt(p, field)
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return invalidInt(p, field)
	}

	if v, err := n.Int64(); err == nil {
		return &v
	}

	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return invalidInt(p, field)
	}
	v := int64(f)
	return &v
}

func invalidInt(p *Payload, field string) *int64 {
	p.addDecodeErr(field, field+" must be a positive integer")
	zero := int64(0)
	return &zero
}

func decodeInterests(p *Payload, raw json.RawMessage) []string {
	if isAbsent(raw) {
		return []string{}
	}
	// []string would turn a null element into ""
	var elems []*string
	if err := json.Unmarshal(raw, &elems); err != nil {
		p.addDecodeErr("interests", interestsShapeMsg)
		return []string{}
	}
	tags := make([]string, 0, len(elems))
	for _, e := range elems {
		if e == nil {
			p.addDecodeErr("interests", interestsShapeMsg)
			return []string{}
		}
		tags = append(tags, *e)
	}
	return tags
}
