package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humsafar/internal/biodata"
)

func TestRedactedWithholdsContactAndRawText(t *testing.T) {
	p := Profile{
		Profile: biodata.Profile{
			Name:    "Priya Verma",
			City:    "Jaipur",
			Contact: "9876543210",
		},
		RawText:         "Name: Priya Verma\nContact: 9876543210",
		GlobalProfileNo: "HS-00023",
	}

	red := p.Redacted()
	assert.Empty(t, red.Contact)
	assert.Empty(t, red.RawText)
	assert.Equal(t, "Priya Verma", red.Name)
	assert.Equal(t, "HS-00023", red.GlobalProfileNo)

	// the original is untouched
	assert.Equal(t, "9876543210", p.Contact)
}

func TestProfileJSONPromotesBiodataFields(t *testing.T) {
	p := Profile{
		Profile:         biodata.Profile{Name: "Priya Verma", Gender: "Female"},
		GlobalProfileNo: "HS-00023",
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Priya Verma", m["name"])
	assert.Equal(t, "Female", m["gender"])
	assert.Equal(t, "HS-00023", m["globalProfileNo"])
}

func TestAccountPasswordHashNeverSerialized(t *testing.T) {
	a := Account{Email: "admin@example.com", PasswordHash: "bcrypt-hash", Role: RoleGroup}
	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "bcrypt-hash")
}
