package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scale.yaml")
	content := `
name: Fusion Inventory
items:
  - id: cfq1
    text: My thoughts cause me distress or emotional pain
  - id: cfq2
    text: I get so caught up in my thoughts that I am unable to do the things I most want to do
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	scale, err := LoadScale(path)
	require.NoError(t, err)
	assert.Equal(t, "Fusion Inventory", scale.Name)
	assert.Len(t, scale.Items, 2)
	assert.Equal(t, DefaultScaleMax, scale.MaxScore)

	text, ok := scale.ItemText("cfq2")
	assert.True(t, ok)
	assert.Contains(t, text, "caught up")

	_, ok = scale.ItemText("missing")
	assert.False(t, ok)
}

func TestLoadScaleMissingFile(t *testing.T) {
	_, err := LoadScale(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestScaleInRange(t *testing.T) {
	var nilScale *Scale
	assert.True(t, nilScale.InRange(0))
	assert.True(t, nilScale.InRange(4))
	assert.False(t, nilScale.InRange(5))
	assert.False(t, nilScale.InRange(-1))

	custom := &Scale{MinScore: 1, MaxScore: 7}
	assert.True(t, custom.InRange(7))
	assert.False(t, custom.InRange(0))
}

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("challenging")
	require.NoError(t, err)
	assert.Equal(t, ConditionChallenging, c)

	_, err = ParseCondition("neutral")
	assert.ErrorIs(t, err, ErrUnknownCondition)
}

func TestStatementCloneIsDeep(t *testing.T) {
	v := 12.5
	s := Statement{ID: "a", ValidatingLatency: &v}
	s.Classification.ValidatingScripts = []string{"one"}

	c := s.Clone()
	*c.ValidatingLatency = 99
	c.Classification.ValidatingScripts[0] = "changed"

	assert.Equal(t, 12.5, *s.ValidatingLatency)
	assert.Equal(t, "one", s.Classification.ValidatingScripts[0])
}
