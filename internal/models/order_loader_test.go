package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOrders = `[
  {"id": "a8cfcb76-7f24-4420-a5ba-d46dd77bdffd", "name": "Banana Split", "temp": "frozen", "shelfLife": 20, "decayRate": 0.63},
  {"id": "58e9b5fe-3fde-4a27-8e98-682e58a4a65d", "name": "McFlury", "temp": "frozen", "shelfLife": 375, "decayRate": 0.4},
  {"id": "2ec069e3-576f-48eb-869f-74a540ef840c", "name": "Acai Bowl", "temp": "cold", "shelfLife": 249, "decayRate": 0.3},
  {"id": "690b85f7-8c7d-4337-bd02-04e04454c826", "name": "Yogurt", "temp": "cold", "shelfLife": 263, "decayRate": 0.37},
  {"id": "972aa5b8-5d83-4d5e-8cf3-8a1a1437b18a", "name": "Chocolate Gelato", "temp": "frozen", "shelfLife": 300, "decayRate": 0.61}
]`

func TestLoadOrders(t *testing.T) {
	orders, err := LoadOrders(strings.NewReader(sampleOrders))
	require.NoError(t, err)
	require.Len(t, orders, 5)

	first := orders[0]
	assert.Equal(t, "a8cfcb76-7f24-4420-a5ba-d46dd77bdffd", first.ID)
	assert.Equal(t, "Banana Split", first.Name)
	assert.Equal(t, TemperatureFrozen, first.Temp)
	assert.Equal(t, 20.0, first.ShelfLife)
	assert.Equal(t, 0.63, first.DecayRate)
	assert.False(t, first.Stamped())

	assert.Equal(t, TemperatureCold, orders[2].Temp)
	assert.Equal(t, "972aa5b8-5d83-4d5e-8cf3-8a1a1437b18a", orders[4].ID, "file order is preserved")
}

func TestLoadOrdersRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"not an array", `{"id": "x"}`},
		{"missing id", `[{"name": "a", "temp": "hot", "shelfLife": 10, "decayRate": 0.1}]`},
		{"unknown temperature", `[{"id": "x", "temp": "warm", "shelfLife": 10, "decayRate": 0.1}]`},
		{"zero shelf life", `[{"id": "x", "temp": "hot", "shelfLife": 0, "decayRate": 0.1}]`},
		{"negative decay", `[{"id": "x", "temp": "hot", "shelfLife": 10, "decayRate": -1}]`},
		{"duplicate id", `[{"id": "x", "temp": "hot", "shelfLife": 10, "decayRate": 0.1},
		                   {"id": "x", "temp": "cold", "shelfLife": 10, "decayRate": 0.1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOrders(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedOrder)
		})
	}
}

func TestLoadOrdersEmptyArray(t *testing.T) {
	orders, err := LoadOrders(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestLoadOrdersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleOrders), 0o644))

	orders, err := LoadOrdersFile(path)
	require.NoError(t, err)
	assert.Len(t, orders, 5)

	_, err = LoadOrdersFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestOrderRecordRoundTrip(t *testing.T) {
	rec := OrderRecord{ID: "x-1", Name: "Pad Thai", Temp: "hot", ShelfLife: 120, DecayRate: 0.25}
	o, err := rec.ToOrder()
	require.NoError(t, err)
	assert.Equal(t, rec, o.Record())
}
