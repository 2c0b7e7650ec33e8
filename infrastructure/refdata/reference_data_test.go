package refdata

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"languages.csv": {Data: []byte("code,language,native\nen,English,English\nid,Indonesian,Bahasa Indonesia\n")},
		"regions.csv":   {Data: []byte("code,hl,name,country\nUS,en,United States,United States\n")},
		"sort_orders.properties": {Data: []byte("*relevance=Relevance\ndate=Upload date\n")},
	}
}

func TestReferenceData_New(t *testing.T) {
	rd, err := New(testFS(), map[string]string{"sort-order": "sort_orders.properties"})
	require.NoError(t, err)
	assert.Len(t, rd.Languages(), 2)
	assert.Len(t, rd.Regions(), 1)
}

func TestReferenceData_New_MissingFile(t *testing.T) {
	fsys := testFS()
	delete(fsys, "regions.csv")

	_, err := New(fsys, nil)
	require.Error(t, err)
}

func TestReferenceData_SelectOptions_Memoized(t *testing.T) {
	rd, err := New(testFS(), map[string]string{"sort-order": "sort_orders.properties"})
	require.NoError(t, err)

	first, err := rd.SelectOptions("sort-order")
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "--", first[0].Label)
	assert.True(t, first[1].IsDefault)

	// Second load must come from the memo, not the filesystem.
	again, err := rd.SelectOptions("sort-order")
	require.NoError(t, err)
	assert.Equal(t, &first[0], &again[0])
}

func TestReferenceData_SelectOptions_UnknownCategory(t *testing.T) {
	rd, err := New(testFS(), map[string]string{"sort-order": "sort_orders.properties"})
	require.NoError(t, err)

	_, err = rd.SelectOptions("no-such-category")
	require.Error(t, err)
}
