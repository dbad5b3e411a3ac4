package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSetKeepsOrder(t *testing.T) {
	var r Record
	r.Set("b", "1")
	r.Set("a", "2")
	r.Set("b", "3")

	assert.Equal(t, []string{"b", "a"}, r.Keys())
	assert.Equal(t, "3", r.String("b"))
	assert.Equal(t, 2, r.Len())
}

func TestRecordMergeOverwrites(t *testing.T) {
	var base, over Record
	base.Set(KeyFileName, "x.mov")
	base.Set(KeyTitle, "T")
	over.Set(KeyFileName, "")
	over.Set(KeyFolderName, "F")

	base.Merge(over)
	assert.Equal(t, []string{KeyFileName, KeyTitle, KeyFolderName}, base.Keys())
	assert.Equal(t, "", base.String(KeyFileName))
}

func TestRecordJSON(t *testing.T) {
	var r Record
	r.Set("z", "last letter")
	r.Set("creators", []string{})
	r.Set("inventory_numbers", []string{"DVD1"})

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last letter","creators":[],"inventory_numbers":["DVD1"]}`, string(out))

	var back Record
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, r.Keys(), back.Keys())
	assert.Equal(t, []string{}, back.Strings("creators"))
	assert.Equal(t, []string{"DVD1"}, back.Strings("inventory_numbers"))
	assert.Equal(t, "last letter", back.String("z"))

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &back))
}

func TestRecordFieldsIsCopy(t *testing.T) {
	var r Record
	r.Set("a", "1")
	fields := r.Fields()
	fields["a"] = "changed"
	assert.Equal(t, "1", r.String("a"))
}
