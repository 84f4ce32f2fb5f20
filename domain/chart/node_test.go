package chart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
		wantErr error
	}{
		{name: "string id", payload: `{"id":"7","pid":"1"}`, wantID: "7"},
		{name: "numeric id", payload: `{"id":4,"pid":1,"name":"New Hire"}`, wantID: "4"},
		{name: "empty object", payload: `{}`, wantErr: ErrInvalidNode},
		{name: "array", payload: `[1,2]`, wantErr: ErrInvalidNode},
		{name: "null", payload: `null`, wantErr: ErrInvalidNode},
		{name: "no id", payload: `{"Title":"CTO"}`, wantErr: ErrMissingID},
		{name: "object id", payload: `{"id":{"x":1}}`, wantErr: ErrMissingID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNode([]byte(tt.payload))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, n.ID())
		})
	}
}

func TestParseNode_MalformedJSON(t *testing.T) {
	_, err := ParseNode([]byte(`{"id":`))
	assert.Error(t, err)
}

func TestSameID(t *testing.T) {
	assert.True(t, SameID("1", "1"))
	assert.True(t, SameID("1", "1.0"))
	assert.True(t, SameID("01", "1"))
	assert.True(t, SameID("abc", "abc"))
	assert.False(t, SameID("abc", "ABC"))
	assert.False(t, SameID("1", "2"))
	assert.False(t, SameID("", "0"))
	assert.True(t, SameID(" 2", "2"))
	assert.True(t, SameID("1e1", "10"))
	assert.True(t, SameID(".5", "0.5"))
}

func TestSameID_OnlyDecimalLiteralsAreNumeric(t *testing.T) {
	assert.False(t, SameID("0x10", "16"))
	assert.False(t, SameID("inf", "Infinity"))
	assert.False(t, SameID("NaN", "nan"))
	assert.False(t, SameID("1_0", "10"))
	assert.False(t, SameID("0b1", "1"))
	assert.True(t, SameID("0x10", "0x10"))
}

func TestNode_MergeOverwritesAndPreserves(t *testing.T) {
	orig, err := ParseNode([]byte(`{"id":2,"pid":1,"name":"Ann Smith"}`))
	require.NoError(t, err)
	patch, err := ParseNode([]byte(`{"id":2,"title":"COO"}`))
	require.NoError(t, err)

	merged := orig.Merge(patch)

	assert.Equal(t, "Ann Smith", merged.Field("name"))
	assert.Equal(t, "COO", merged.Field("title"))
	assert.Equal(t, "1", merged.ParentID())
	assert.False(t, orig.Has("title"), "merge must not modify the original")
	assert.False(t, patch.Has("name"), "merge must not modify the patch")
}

func TestNode_MergeDoesNotAlias(t *testing.T) {
	orig := MustNode("1", map[string]any{FieldTitle: "CEO"})
	patch := MustNode("1", map[string]any{FieldTags: []string{"a"}})

	merged := orig.Merge(patch)
	raw, _ := merged.Raw(FieldTags)
	raw[2] = 'z'

	assert.Equal(t, []string{"a"}, patch.Tags())
}

func TestNode_Accessors(t *testing.T) {
	n, err := ParseNode([]byte(`{"id":"9","pid":"","Title":"CTO","tags":["orange","blue"],"extra":{"deep":true}}`))
	require.NoError(t, err)

	assert.Equal(t, "9", n.ID())
	assert.Equal(t, "", n.ParentID())
	assert.Equal(t, "CTO", n.Field(FieldTitle))
	assert.Equal(t, []string{"orange", "blue"}, n.Tags())
	assert.Equal(t, "", n.Field("extra"))
	assert.Equal(t, []string{"Title", "extra", "id", "pid", "tags"}, n.Keys())

	raw, ok := n.Raw("extra")
	require.True(t, ok)
	assert.JSONEq(t, `{"deep":true}`, string(raw))
}

func TestNode_With(t *testing.T) {
	n := MustNode("1", map[string]any{FieldImageURL: "old.png"})

	updated, err := n.With(FieldImageURL, "new.png")
	require.NoError(t, err)

	assert.Equal(t, "new.png", updated.Field(FieldImageURL))
	assert.Equal(t, "old.png", n.Field(FieldImageURL))
}

func TestNode_MarshalKeepsFieldsVerbatim(t *testing.T) {
	payload := `{"id":4,"pid":1,"name":"New Hire","tags":["a","b"],"meta":{"level":3}}`
	n, err := ParseNode([]byte(payload))
	require.NoError(t, err)

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(out))
}

func TestNode_Equal(t *testing.T) {
	a, _ := ParseNode([]byte(`{"id":1, "tags":[ "x" ]}`))
	b, _ := ParseNode([]byte(`{"tags":["x"],"id":1}`))
	c, _ := ParseNode([]byte(`{"tags":["x"],"id":"1"}`))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
