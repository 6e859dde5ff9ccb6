package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	in := "```json\n{\"name\":\"Priya\"}\n```"
	assert.Equal(t, `{"name":"Priya"}`, stripCodeFences(in))

	// no fences: untouched
	assert.Equal(t, `{"name":"Priya"}`, stripCodeFences(`{"name":"Priya"}`))

	// fence without language tag
	in = "```\n{\"a\":1}\n```"
	assert.Equal(t, `{"a":1}`, stripCodeFences(in))
}

func TestExtractFirstJSON(t *testing.T) {
	got, ok := extractFirstJSON(`Here you go: {"name":"Priya","nested":{"a":1}} hope that helps`)
	assert.True(t, ok)
	assert.Equal(t, `{"name":"Priya","nested":{"a":1}}`, got)

	got, ok = extractFirstJSON(`[1,2,3] trailing`)
	assert.True(t, ok)
	assert.Equal(t, `[1,2,3]`, got)

	_, ok = extractFirstJSON("no json here")
	assert.False(t, ok)
}
