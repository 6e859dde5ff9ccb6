package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBiodataCSVWithHeader(t *testing.T) {
	csv := `group,biodata
jaipur,"Name: Priya Verma
Gender: Female
Contact: 9876543210"
jaipur,"Name: Rahul Jain
Gender: Male"
`
	profiles, failed, err := parseBiodataCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Priya Verma", profiles[0].Name)
	assert.Equal(t, "9876543210", profiles[0].Contact)
	assert.Equal(t, "Rahul Jain", profiles[1].Name)
	assert.Contains(t, profiles[0].RawText, "Priya Verma")
}

func TestParseBiodataCSVNoHeader(t *testing.T) {
	csv := `"Name: Anita Shah
Gender: Female"
`
	profiles, failed, err := parseBiodataCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Anita Shah", profiles[0].Name)
}

func TestParseBiodataCSVSkipsShortRows(t *testing.T) {
	csv := `biodata
"Name: Priya Verma"
"x"
""
`
	profiles, failed, err := parseBiodataCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, failed)
	require.Len(t, profiles, 1)
}

func TestParseBiodataCSVEmptyFile(t *testing.T) {
	_, _, err := parseBiodataCSV(strings.NewReader(""))
	assert.Error(t, err)
}
