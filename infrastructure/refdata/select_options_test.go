package refdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tube-catalog/domain/model"
)

func TestLoadSelectOptions_PrependsBlankPlaceholder(t *testing.T) {
	input := "# sort orders\nrelevance=Relevance\ndate=Upload date\n"

	options, err := LoadSelectOptions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, model.SelectOption{Value: "", Label: "--"}, options[0])
	assert.Equal(t, model.SelectOption{Value: "relevance", Label: "Relevance"}, options[1])
	assert.Equal(t, model.SelectOption{Value: "date", Label: "Upload date"}, options[2])
}

func TestLoadSelectOptions_DefaultMarker(t *testing.T) {
	input := "*moderate=Moderate\nnone=None\n"

	options, err := LoadSelectOptions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "moderate", options[1].Value)
	assert.True(t, options[1].IsDefault)
	assert.False(t, options[2].IsDefault)
}

func TestLoadSelectOptions_EmptyBundle(t *testing.T) {
	options, err := LoadSelectOptions(strings.NewReader("\n# nothing here\n"))
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "--", options[0].Label)
}
