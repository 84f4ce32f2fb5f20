package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Well-known node fields. They follow the widget's form bindings; any other
// key is carried verbatim.
const (
	FieldID           = "id"
	FieldParentID     = "pid"
	FieldEmployeeName = "EmployeeName"
	FieldTitle        = "Title"
	FieldEmail        = "Email"
	FieldImageURL     = "ImgUrl"
	FieldTags         = "tags"
)

var (
	// ErrInvalidNode is returned when a payload is not a non-empty JSON object.
	ErrInvalidNode = errors.New("node must be a non-empty JSON object")
	// ErrMissingID is returned when a node payload carries no usable id.
	ErrMissingID = errors.New("node id is required")
)

// Node is one record of the chart. The id is the only required field; every
// other field is an optional named value kept exactly as received so that a
// stored payload reads back deep-equal.
type Node struct {
	fields map[string]json.RawMessage
}

// ParseNode decodes a JSON object into a Node and requires an id.
func ParseNode(data []byte) (Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return Node{}, err
	}
	if len(n.fields) == 0 {
		return Node{}, ErrInvalidNode
	}
	if n.ID() == "" {
		return Node{}, ErrMissingID
	}
	return n, nil
}

// NewNode builds a node from Go values. It is used for seed data and tests.
func NewNode(id string, fields map[string]any) (Node, error) {
	raw := make(map[string]json.RawMessage, len(fields)+1)
	for k, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return Node{}, err
		}
		raw[k] = b
	}
	idJSON, _ := json.Marshal(id)
	raw[FieldID] = idJSON
	return Node{fields: raw}, nil
}

// MustNode is NewNode for literals known to be valid.
func MustNode(id string, fields map[string]any) Node {
	n, err := NewNode(id, fields)
	if err != nil {
		panic(err)
	}
	return n
}

// ID returns the literal text of the id: the string value, or the number as
// written on the wire. Empty when absent or of another JSON type.
func (n Node) ID() string {
	return scalarText(n.fields[FieldID])
}

// ParentID returns the pid; empty means root.
func (n Node) ParentID() string {
	return scalarText(n.fields[FieldParentID])
}

// Field returns a field as text when it is a JSON string or number.
func (n Node) Field(key string) string {
	return scalarText(n.fields[key])
}

// Tags returns the node's tag labels, or nil when absent or malformed.
func (n Node) Tags() []string {
	raw, ok := n.fields[FieldTags]
	if !ok {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

// Has reports whether the node carries key.
func (n Node) Has(key string) bool {
	_, ok := n.fields[key]
	return ok
}

// Raw returns the verbatim JSON of a field.
func (n Node) Raw(key string) (json.RawMessage, bool) {
	v, ok := n.fields[key]
	return v, ok
}

// Keys returns the field names in sorted order.
func (n Node) Keys() []string {
	keys := make([]string, 0, len(n.fields))
	for k := range n.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsZero reports whether the node has no fields at all.
func (n Node) IsZero() bool {
	return len(n.fields) == 0
}

// With returns a copy of the node with key set to the JSON encoding of value.
func (n Node) With(key string, value any) (Node, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return Node{}, err
	}
	out := n.clone()
	out.fields[key] = b
	return out, nil
}

// Merge returns a new node holding every field of n overwritten by every
// field present in patch. Neither n nor patch is modified.
func (n Node) Merge(patch Node) Node {
	out := n.clone()
	for k, v := range patch.fields {
		out.fields[k] = cloneRaw(v)
	}
	return out
}

// Equal reports whether both nodes hold the same fields with identical JSON.
func (n Node) Equal(other Node) bool {
	if len(n.fields) != len(other.fields) {
		return false
	}
	for k, v := range n.fields {
		w, ok := other.fields[k]
		if !ok || !bytes.Equal(compact(v), compact(w)) {
			return false
		}
	}
	return true
}

func (n Node) clone() Node {
	out := Node{fields: make(map[string]json.RawMessage, len(n.fields))}
	for k, v := range n.fields {
		out.fields[k] = cloneRaw(v)
	}
	return out
}

// MarshalJSON writes the node as an object with keys in sorted order.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(n.fields)
}

// UnmarshalJSON accepts only JSON objects.
func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ErrInvalidNode
	}
	if fields == nil {
		return ErrInvalidNode
	}
	n.fields = fields
	return nil
}

// SameID compares ids loosely: equal text, or equal numeric value when both
// sides are numbers ("1", 1 and "1.0" all match).
// Only plain decimal literals count as numbers; hex, underscores and
// inf/nan spellings compare as text.
func SameID(a, b string) bool {
	if a == b {
		return true
	}
	fa, okA := decimalValue(a)
	fb, okB := decimalValue(b)
	return okA && okB && fa == fb
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func decimalValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}

func cloneRaw(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out
}

func compact(v json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return v
	}
	return buf.Bytes()
}
