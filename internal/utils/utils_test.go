package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickObjective(t *testing.T) {
	words := []string{"Castle", "Bridge", "Igloo"}

	assert.Equal(t, "Bridge", PickObjective(func(int) int { return 1 }, words))
	assert.Empty(t, PickObjective(func(int) int { return 0 }, nil))

	var gotN int
	PickObjective(func(n int) int { gotN = n; return 0 }, DefaultObjectives)
	assert.Equal(t, 12, gotN)
}

func TestMergeObjectives(t *testing.T) {
	merged := MergeObjectives([]string{"Castle", "Bridge"}, []string{"castle", " Tower ", "", "Bridge", "Dam"})
	assert.Equal(t, []string{"Castle", "Bridge", "Tower", "Dam"}, merged)
}

func TestReadObjectives(t *testing.T) {
	input := "word,difficulty\nTower,easy\n\"  Dam \"\n,\nSky   Scraper,hard\n"

	words, err := ReadObjectives(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Tower", "Dam", "Sky Scraper"}, words)
}

func TestReadObjectivesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objectives.csv")
	require.NoError(t, os.WriteFile(path, []byte("Barn\nFerris Wheel\n"), 0o600))

	words, err := ReadObjectivesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barn", "Ferris Wheel"}, words)

	_, err = ReadObjectivesFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
