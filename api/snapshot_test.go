package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_EmptyBucketsSerializeAsArrays(t *testing.T) {
	data, err := json.Marshal(NewSnapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"classes":[],"properties":[],"entities":[],"literals":[]}`, string(data))
}

func TestSnapshot_AddAppend(t *testing.T) {
	s := NewSnapshot()
	s.Add(Entities, "Alice")
	s.Add(Properties, "type")

	other := NewSnapshot()
	other.Add(Entities, "Bob")
	other.Add(Literals, "x")

	s.Append(other)
	assert.Equal(t, []string{"Alice", "Bob"}, s.Bucket(Entities))
	assert.Equal(t, []string{"type"}, s.Properties)
	assert.Equal(t, []string{"x"}, s.Literals)
	assert.Equal(t, 4, s.Len())
}

func TestSnapshot_Normalize(t *testing.T) {
	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"classes":["C"]}`), &s))
	s.Normalize()
	assert.Equal(t, []string{"C"}, s.Classes)
	assert.NotNil(t, s.Literals)
	assert.Empty(t, s.Literals)
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("classes")
	assert.True(t, ok)
	assert.Equal(t, Classes, c)

	_, ok = ParseCategory("Classes")
	assert.False(t, ok)
}
