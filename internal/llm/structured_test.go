package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNeed struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type testPayload struct {
	Needs []testNeed `json:"needs"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	result, err := ExtractJSON[testPayload](`{"needs":[{"name":"plywood","quantity":3}]}`, nil)
	require.NoError(t, err)
	require.Len(t, result.Needs, 1)
	assert.Equal(t, "plywood", result.Needs[0].Name)
}

func TestExtractJSON_FencedWithProse(t *testing.T) {
	raw := "Here you go:\n```json\n{\"needs\":[{\"name\":\"paint\",\"quantity\":2}]}\n```\nHope that helps!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "paint", result.Needs[0].Name)
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := `{
		// materials first
		"needs": [{"name": "glue // strong", "quantity": .5}] /* done */
	}`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "glue // strong", result.Needs[0].Name)
	assert.Equal(t, 0.5, result.Needs[0].Quantity)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"needs":[{"name":"bracket }{ set","quantity":1}]} trailing {`
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "bracket }{ set", result.Needs[0].Name)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload]("I don't know what you mean.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"needs": broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_Validation(t *testing.T) {
	positive := func(p testPayload) error {
		for _, n := range p.Needs {
			if n.Quantity <= 0 {
				return fmt.Errorf("quantity of %s must be positive", n.Name)
			}
		}
		return nil
	}

	_, err := ExtractJSON(`{"needs":[{"name":"mdf","quantity":-1}]}`, positive)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	ok, err := ExtractJSON(`{"needs":[{"name":"mdf","quantity":1}]}`, positive)
	require.NoError(t, err)
	assert.Len(t, ok.Needs, 1)
}
