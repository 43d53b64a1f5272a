package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 87, c.Size())

	display := c.Display()
	assert.Len(t, display, len(Categories))
	assert.Equal(t, "🍅 Pomidorai", display[CategoryVegetables][0])
	assert.Contains(t, display[CategoryDairy], "🧀 Tepamas sūris")
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name  string
		items map[Category][]Item
	}{
		{name: "empty", items: nil},
		{name: "unknown category", items: map[Category][]Item{"saldumynai": {{Name: "Ledai", Emoji: "🍦"}}}},
		{name: "empty category", items: map[Category][]Item{CategoryFruits: {}}},
		{name: "blank name", items: map[Category][]Item{CategoryFruits: {{Name: " ", Emoji: "🍎"}}}},
		{name: "missing icon", items: map[Category][]Item{CategoryFruits: {{Name: "Obuoliai"}}}},
		{name: "icon with space", items: map[Category][]Item{CategoryFruits: {{Name: "Obuoliai", Emoji: "🍎 x"}}}},
		{name: "duplicate", items: map[Category][]Item{CategoryFruits: {
			{Name: "Obuoliai", Emoji: "🍎"},
			{Name: "Obuoliai", Emoji: "🍏"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, New(tt.items).Validate())
		})
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := Default()
	items := c.Items(CategoryFruits)
	items[0].Name = "changed"
	assert.Equal(t, "Obuoliai", c.Items(CategoryFruits)[0].Name)
}

func TestBareName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "🍅 Pomidorai", want: "Pomidorai"},
		{input: "🧀 Tepamas sūris", want: "Tepamas sūris"},
		{input: "🌶️ Pipirai", want: "Pipirai"},
		{input: "Pomidorai", want: "Pomidorai"},
		{input: " Pomidorai", want: " Pomidorai"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, BareName(tt.input))
		})
	}
}
