package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Mia", "greeting": "Hi there!"}`), 0644))

	v, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Mia", v.Name)
	assert.Equal(t, "Hi there!", v.Greeting)
	assert.Equal(t, Default().SignOff, v.SignOff)
	assert.Len(t, v.FollowUpQuestions, 3)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestFormatForPrompt(t *testing.T) {
	out := Default().FormatForPrompt()
	assert.Contains(t, out, `- Open with: "G'day!"`)
	assert.Contains(t, out, `"brilliant", "spot on"`)
	assert.Contains(t, out, "You never:\n- recommend items that are not in the provided list")

	assert.Empty(t, Voice{}.FormatForPrompt())
}
