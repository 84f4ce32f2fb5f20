package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultKey is the fixed document name the chart is persisted under.
const DefaultKey = "orgchart_data"

// PlaceholderAvatar is shown for the display-only placeholder node.
const PlaceholderAvatar = "https://cdn.balkan.app/shared/empty.jpg"

// Collection is the whole chart as an ordered list of nodes. Order is
// insertion order; hierarchy comes from pid links only.
type Collection []Node

// IndexOf returns the position of the first node whose id loosely equals id,
// or -1.
func (c Collection) IndexOf(id string) int {
	for i, n := range c {
		if SameID(n.ID(), id) {
			return i
		}
	}
	return -1
}

// Append returns a new collection with n added at the end. Duplicate ids are
// accepted.
func (c Collection) Append(n Node) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, c...)
	return append(out, n.clone())
}

// Replace returns a new collection with the node at i swapped for n.
func (c Collection) Replace(i int, n Node) Collection {
	out := c.Clone()
	out[i] = n.clone()
	return out
}

// Without returns a new collection minus every node whose id loosely equals
// id. Survivors keep their relative order; descendants are not touched.
func (c Collection) Without(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, n := range c {
		if SameID(n.ID(), id) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Clone deep-copies the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, n := range c {
		out[i] = n.clone()
	}
	return out
}

// Orphans returns the nodes whose pid references no node in the collection.
func (c Collection) Orphans() Collection {
	var out Collection
	for _, n := range c {
		pid := n.ParentID()
		if pid == "" {
			continue
		}
		if c.IndexOf(pid) == -1 {
			out = append(out, n)
		}
	}
	return out
}

// Encode serializes the collection as the persisted document.
func Encode(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return b, nil
}

// Decode parses a persisted document. An empty or null document is an empty
// collection.
func Decode(data []byte) (Collection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Collection{}, nil
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

// Seed is the chart written when a store is first initialized.
func Seed() Collection {
	return Collection{
		MustNode("1", map[string]any{
			FieldParentID:     "",
			FieldEmployeeName: "Jack Hill",
			FieldTitle:        "Chairman and CEO",
			FieldEmail:        "jack@example.com",
			FieldImageURL:     "https://cdn.balkan.app/shared/16.jpg",
			FieldTags:         []string{"orange"},
		}),
		MustNode("2", map[string]any{
			FieldParentID:     "1",
			FieldEmployeeName: "Ann Smith",
			FieldTitle:        "CTO",
			FieldEmail:        "ann@example.com",
			FieldImageURL:     "https://cdn.balkan.app/shared/1.jpg",
		}),
		MustNode("3", map[string]any{
			FieldParentID:     "1",
			FieldEmployeeName: "Joe Brown",
			FieldTitle:        "CFO",
			FieldEmail:        "joe@example.com",
			FieldImageURL:     "https://cdn.balkan.app/shared/2.jpg",
		}),
	}
}

// Placeholder is the single node displayed when the stored chart is empty.
// It is never persisted on its own.
func Placeholder() Node {
	return MustNode("1", map[string]any{
		FieldEmployeeName: "New Employee",
		FieldTitle:        "Click to Edit",
		FieldImageURL:     PlaceholderAvatar,
	})
}
