package parser

import (
	"testing"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	rows := [][]interface{}{
		{"Name", "Recipe", "Price", "Image"},
		{"Salad"},
		{"Caesar", "Romaine, parmesan", "8.5", "https://img.example/caesar.jpg"},
		{" Greek ", "Feta, olives", 9},
		{},
		{"Soup", ""},
		{"Tomato", "Basil", "6"},
	}

	items, err := parseRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []domain.MenuItem{
		{Name: "Caesar", Recipe: "Romaine, parmesan", Price: 8.5, Image: "https://img.example/caesar.jpg", Category: "salad"},
		{Name: "Greek", Recipe: "Feta, olives", Price: 9, Category: "salad"},
		{Name: "Tomato", Recipe: "Basil", Price: 6, Category: "soup"},
	}, items)
}

func TestParseRowsErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]interface{}
	}{
		{
			name: "item before category",
			rows: [][]interface{}{{"header"}, {"Caesar", "Romaine", "8"}},
		},
		{
			name: "price not a number",
			rows: [][]interface{}{{"header"}, {"Salad"}, {"Caesar", "Romaine", "cheap"}},
		},
		{
			name: "price zero",
			rows: [][]interface{}{{"header"}, {"Salad"}, {"Caesar", "Romaine", "0"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRows(tt.rows)
			assert.Error(t, err)
		})
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	items, err := parseRows([][]interface{}{{"Name", "Recipe", "Price", "Image"}})
	require.NoError(t, err)
	assert.Empty(t, items)
}
