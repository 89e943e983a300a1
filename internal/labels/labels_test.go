package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"en-US,en;q=0.9", language.English},
		{"ar-EG,ar;q=0.9,en;q=0.5", language.Arabic},
		{"ar", language.Arabic},
		{"fr-FR", language.English},
		{"de;q=0.9,ar;q=0.8", language.Arabic},
		{"not a header;;;", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Match(tt.header))
		})
	}
}

func TestLookup(t *testing.T) {
	c := NewCatalog()

	entries, err := c.Lookup(KindClientPriority, language.Arabic)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, Entry{Value: "urgent", Label: "عاجل", Color: "orange", Icon: "heroicon-o-exclamation-triangle"}, entries[3])

	entries, err = c.Lookup(KindTaskType, language.English)
	require.NoError(t, err)
	assert.Equal(t, "property_viewing", entries[1].Value)
	assert.Equal(t, "Property viewing", entries[1].Label)

	_, err = c.Lookup(Kind("currencies"), language.English)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEveryKindHasLabels(t *testing.T) {
	c := NewCatalog()
	for _, kind := range Kinds() {
		for _, lang := range []language.Tag{language.English, language.Arabic} {
			entries, err := c.Lookup(kind, lang)
			require.NoError(t, err)
			assert.NotEmpty(t, entries)
			for _, e := range entries {
				assert.NotEmpty(t, e.Value, kind)
				assert.NotEmpty(t, e.Label, kind)
			}
		}
	}
}

func TestLabel(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, "متاح", c.Label(KindPropertyStatus, "available", language.Arabic))
	assert.Equal(t, "Blacklisted", c.Label(KindClientStatus, "blacklisted", language.English))
	assert.Equal(t, "mystery", c.Label(KindClientStatus, "mystery", language.English))
	assert.Equal(t, "x", c.Label(Kind("nope"), "x", language.English))
}
