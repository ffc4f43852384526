package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaState struct {
	Name    string
	Count   int
	Items   []string
	Visits  int
	First   string
	Flag    bool
	private string
}

func TestFieldMerger_DefaultOverwritesNonZero(t *testing.T) {
	schema := NewFieldMerger(schemaState{Name: "init", Count: 1})

	got, err := schema.Update(schema.Init(), schemaState{Count: 2})
	require.NoError(t, err)

	assert.Equal(t, "init", got.Name)
	assert.Equal(t, 2, got.Count)
}

func TestFieldMerger_RegisteredMerges(t *testing.T) {
	schema := NewFieldMerger(schemaState{})
	schema.RegisterFieldMerge("Items", AppendSliceMerge)
	schema.RegisterFieldMerge("Visits", SumIntMerge)
	schema.RegisterFieldMerge("First", KeepCurrentMerge)
	schema.RegisterFieldMerge("Flag", OverwriteMerge)

	state := schemaState{Items: []string{"a"}, Visits: 1, Flag: true}

	state, err := schema.Update(state, schemaState{Items: []string{"b", "c"}, Visits: 2, First: "x"})
	require.NoError(t, err)
	state, err = schema.Update(state, schemaState{First: "y"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, state.Items)
	assert.Equal(t, 3, state.Visits)
	assert.Equal(t, "x", state.First)
	assert.False(t, state.Flag, "overwrite merge takes zero values too")
}

func TestAppendSliceMerge_DoesNotAlias(t *testing.T) {
	schema := NewFieldMerger(schemaState{})
	schema.RegisterFieldMerge("Items", AppendSliceMerge)

	base := make([]string, 1, 10)
	base[0] = "a"
	before := schemaState{Items: base}

	left, err := schema.Update(before, schemaState{Items: []string{"left"}})
	require.NoError(t, err)
	right, err := schema.Update(before, schemaState{Items: []string{"right"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "left"}, left.Items)
	assert.Equal(t, []string{"a", "right"}, right.Items)
	assert.Equal(t, []string{"a"}, before.Items)
}

func TestAppendSliceMerge_EmptyUpdateKeepsCurrent(t *testing.T) {
	schema := NewFieldMerger(schemaState{})
	schema.RegisterFieldMerge("Items", AppendSliceMerge)

	got, err := schema.Update(schemaState{Items: []string{"a"}}, schemaState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Items)
}

func TestFieldMerger_SkipsUnexportedFields(t *testing.T) {
	schema := NewFieldMerger(schemaState{})

	got, err := schema.Update(schemaState{private: "keep"}, schemaState{private: "drop", Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, "keep", got.private)
	assert.Equal(t, "n", got.Name)
}

func TestFieldMerger_RejectsNonStruct(t *testing.T) {
	schema := NewFieldMerger(map[string]any{})

	_, err := schema.Update(map[string]any{}, map[string]any{"a": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only works with struct")
}
