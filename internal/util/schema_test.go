package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"destination": map[string]any{"type": "string"},
			"travelers":   map[string]any{"type": "integer"},
			"budget":      map[string]any{"type": "number"},
		},
		"required": []string{"destination"},
	}
}

func TestValidateParameters_Valid(t *testing.T) {
	err := ValidateParameters(map[string]any{
		"destination": "Lisbon",
		"travelers":   float64(2),
		"budget":      1500.0,
	}, toolSchema())

	assert.NoError(t, err)
}

func TestValidateParameters_MissingRequired(t *testing.T) {
	err := ValidateParameters(map[string]any{"travelers": float64(2)}, toolSchema())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination")
}

func TestValidateParameters_RequiredAsAnySlice(t *testing.T) {
	schema := toolSchema()
	schema["required"] = []any{"destination"}

	err := ValidateParameters(map[string]any{}, schema)
	require.Error(t, err)
}

func TestValidateParameters_TypeMismatch(t *testing.T) {
	err := ValidateParameters(map[string]any{
		"destination": "Lisbon",
		"travelers":   "two",
	}, toolSchema())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "travelers")
}

func TestValidateParameters_FractionalInteger(t *testing.T) {
	err := ValidateParameters(map[string]any{
		"destination": "Lisbon",
		"travelers":   2.5,
	}, toolSchema())

	assert.Error(t, err)
}

func TestCreateSchema(t *testing.T) {
	type tripArgs struct {
		Destination string  `json:"destination" description:"Destination city"`
		Budget      float64 `json:"budget,omitempty"`
	}

	schema := CreateSchema(tripArgs{})

	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "destination")
	assert.Contains(t, props, "budget")
}
