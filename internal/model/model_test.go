package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_ValueScan(t *testing.T) {
	t.Run("nil map", func(t *testing.T) {
		var m JSONMap
		v, err := m.Value()
		require.NoError(t, err)
		assert.Equal(t, "{}", v)
	})

	t.Run("round trip", func(t *testing.T) {
		m := JSONMap{"name": "Ada", "count": float64(2)}
		v, err := m.Value()
		require.NoError(t, err)

		var out JSONMap
		require.NoError(t, out.Scan(v))
		assert.Equal(t, m, out)
	})
}

func TestResume_ContentRoundTrip(t *testing.T) {
	content := &Content{
		Meta:    Meta{Name: "Ada Lovelace", Headline: "Engineer"},
		Summary: "Analytical engines.",
		Experience: []Role{
			{Company: "Babbage & Co", Title: "Programmer", Bullets: []string{"wrote notes"}},
		},
		Skills: []string{"mathematics"},
	}

	r := &Resume{}
	require.NoError(t, r.SetContent(content))

	parsed, err := r.ParseContent()
	require.NoError(t, err)
	assert.Equal(t, content.Meta.Name, parsed.Meta.Name)
	assert.Equal(t, content.Summary, parsed.Summary)
	require.Len(t, parsed.Experience, 1)
	assert.Equal(t, "Babbage & Co", parsed.Experience[0].Company)
	assert.Equal(t, content.Skills, parsed.Skills)
}

func TestAllModels(t *testing.T) {
	models := AllModels()
	assert.Len(t, models, 3)
}
