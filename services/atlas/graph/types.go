// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies the concrete type held by a Value.
type ValueKind int

const (
	// KindString is a plain UTF-8 string.
	KindString ValueKind = iota

	// KindNumber is a float64. JSON integers land here too.
	KindNumber

	// KindBool is a boolean.
	KindBool

	// KindTime is an RFC 3339 timestamp. Strings that parse as RFC 3339
	// are promoted to this kind during unmarshalling.
	KindTime
)

// Value is a scalar property value: string, number, boolean, or
// timestamp. Objects and arrays are rejected during unmarshalling.
//
// The zero Value is the empty string.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	t    time.Time
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// TimeValue returns a timestamp Value.
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind returns the concrete kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the numeric value. The second return is false unless
// the kind is KindNumber.
func (v Value) Number() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	return 0, false
}

// Bool returns the boolean value. The second return is false unless
// the kind is KindBool.
func (v Value) Bool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Time returns the timestamp value. The second return is false unless
// the kind is KindTime.
func (v Value) Time() (time.Time, bool) {
	if v.kind == KindTime {
		return v.t, true
	}
	return time.Time{}, false
}

// String renders the value in its canonical text form. Numbers use the
// shortest representation that round-trips, timestamps use RFC 3339.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return v.str
	}
}

// Fold returns the lower-cased canonical text form. Index keys and
// case-insensitive matching use this form.
func (v Value) Fold() string {
	return strings.ToLower(v.String())
}

// MarshalJSON renders the value as its native JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339))
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts any JSON scalar. Strings that parse as RFC 3339
// become KindTime. Objects, arrays, and null are rejected with
// ErrPropertyValue.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty value", ErrPropertyValue)
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			*v = TimeValue(ts)
		} else {
			*v = StringValue(s)
		}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	case '{', '[':
		return fmt.Errorf("%w: objects and arrays are not scalars", ErrPropertyValue)
	case 'n':
		return fmt.Errorf("%w: null", ErrPropertyValue)
	default:
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrPropertyValue, string(trimmed))
		}
		*v = NumberValue(f)
		return nil
	}
}

// Property is one key/value attribute on a node or edge.
type Property struct {
	Key   string
	Value Value
}

// Properties is an attribute list that preserves the declaration order
// of the source document. Lookup is linear; property lists are small.
type Properties []Property

// Get returns the value for key and whether it was present.
func (p Properties) Get(key string) (Value, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return Value{}, false
}

// Clone returns an independent copy.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	copy(out, p)
	return out
}

// MarshalJSON renders the properties as a JSON object in declaration
// order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := prop.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object while preserving key order. The
// last occurrence wins when a key repeats.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: properties must be an object", ErrPropertyValue)
	}

	out := make(Properties, 0, 4)
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: non-string property key", ErrPropertyValue)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var val Value
		if err := val.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}

		if idx, dup := seen[key]; dup {
			out[idx].Value = val
			continue
		}
		seen[key] = len(out)
		out = append(out, Property{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}

// Node is a labeled, typed, attributed vertex.
type Node struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Type       string     `json:"type"`
	Properties Properties `json:"properties,omitempty"`
}

// Clone returns an independent copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Properties = n.Properties.Clone()
	return &out
}

// Edge is a directed, labeled, attributed connection between two nodes.
// Analytics treat edges as undirected; path enumeration follows edge
// direction.
type Edge struct {
	ID         string     `json:"id,omitempty"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Label      string     `json:"label,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// Clone returns an independent copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	out := *e
	out.Properties = e.Properties.Clone()
	return &out
}
