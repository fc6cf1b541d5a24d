package rankmdx

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Specification is one label/value pair of a product's technical data.
type Specification struct {
	Label string
	Value string
}

// Specifications is an ordered label to value mapping. It serializes as a
// JSON object whose keys keep their insertion order.
type Specifications []Specification

// First returns the first specification, if any.
func (s Specifications) First() (Specification, bool) {
	if len(s) == 0 {
		return Specification{}, false
	}
	return s[0], true
}

// Get returns the value for label.
func (s Specifications) Get(label string) (string, bool) {
	for _, spec := range s {
		if spec.Label == label {
			return spec.Value, true
		}
	}
	return "", false
}

// add appends a pair, ignoring empty values and repeated labels.
func (s Specifications) add(label, value string) Specifications {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)
	if label == "" || value == "" {
		return s
	}
	if _, ok := s.Get(label); ok {
		return s
	}
	return append(s, Specification{Label: label, Value: value})
}

// MarshalJSON encodes the specifications as an ordered JSON object.
func (s Specifications) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(spec.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(spec.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts every shape ParseSpecifications accepts.
func (s *Specifications) UnmarshalJSON(data []byte) error {
	specs, err := ParseSpecifications(data)
	if err != nil {
		return err
	}
	*s = specs
	return nil
}

// ParseSpecifications normalizes the two shapes models produce for product
// specifications: a JSON object of label to value (possibly nested, flattened
// as "Parent / Child") and a JSON array of {name, value} entries. Any other
// shape returns EINVALID.
func ParseSpecifications(data []byte) (Specifications, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var specs Specifications
	var err error
	switch data[0] {
	case '{':
		specs, err = parseSpecObject(data, "", nil)
	case '[':
		specs, err = parseSpecList(data)
	default:
		return nil, Errorf(EINVALID, "unrecognized specifications shape: %s", truncate(string(data), 40))
	}
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, nil
	}
	return specs, nil
}

func parseSpecObject(data []byte, prefix string, specs Specifications) (Specifications, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return nil, Errorf(EINVALID, "invalid specifications object: %v", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, Errorf(EINVALID, "invalid specifications object: %v", err)
		}
		key, _ := tok.(string)
		label := key
		if prefix != "" {
			label = prefix + " / " + key
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, Errorf(EINVALID, "invalid specification %q: %v", key, err)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			if specs, err = parseSpecObject(raw, label, specs); err != nil {
				return nil, err
			}
			continue
		}
		value, err := specValue(raw)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid specification %q: %v", label, err)
		}
		specs = specs.add(label, value)
	}
	return specs, nil
}

func parseSpecList(data []byte) (Specifications, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, Errorf(EINVALID, "specifications list must contain {name, value} objects")
	}
	var specs Specifications
	for i, entry := range entries {
		label, err := firstField(entry, "name", "label", "nombre")
		if err != nil {
			return nil, Errorf(EINVALID, "specification %d: %v", i, err)
		}
		value, err := firstField(entry, "value", "valor")
		if err != nil {
			return nil, Errorf(EINVALID, "specification %d: %v", i, err)
		}
		specs = specs.add(label, value)
	}
	return specs, nil
}

func firstField(entry map[string]json.RawMessage, names ...string) (string, error) {
	for _, name := range names {
		if raw, ok := entry[name]; ok {
			return specValue(raw)
		}
	}
	return "", Errorf(EINVALID, "missing %q", names[0])
}

// specValue renders a scalar or a list of scalars as text.
func specValue(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "Sí", nil
		}
		return "No", nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			switch item := item.(type) {
			case string:
				parts = append(parts, item)
			case json.Number:
				parts = append(parts, item.String())
			default:
				return "", Errorf(EINVALID, "nested list values are not supported")
			}
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", Errorf(EINVALID, "unsupported value type %T", v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
