package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fridgewise-backend/pkg/memory"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	raw, err := ExtractJSON(`{"items":[]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(raw))
}

func TestExtractJSON_MarkdownFence(t *testing.T) {
	raw, err := ExtractJSON("```json\n{\"items\":[{\"name\":\"milk\"}]}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"name":"milk"}]}`, string(raw))
}

func TestExtractJSON_BareFence(t *testing.T) {
	raw, err := ExtractJSON("```\n{\"recipes\":[]}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipes":[]}`, string(raw))
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw, err := ExtractJSON(`Sure, here is the result: {"updates":[]} Hope that helps!`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"updates":[]}`, string(raw))
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON("I could not read the receipt.")
	assert.Error(t, err)
}

func TestStripDataPrefix(t *testing.T) {
	assert.Equal(t, "aGVsbG8=", stripDataPrefix("data:image/png;base64,aGVsbG8="))
	assert.Equal(t, "aGVsbG8=", stripDataPrefix("aGVsbG8="))
}

func TestBuildPrompt_SubstitutesProfileAndInput(t *testing.T) {
	profile := memory.Profile{Allergies: []string{"peanuts"}}

	prompt := buildPrompt(promptRestock, profile, "two cartons of milk")

	assert.Contains(t, prompt, "peanuts")
	assert.Contains(t, prompt, "two cartons of milk")
	assert.NotContains(t, prompt, "{{memory}}")
	assert.NotContains(t, prompt, "{{today}}")
	assert.NotContains(t, prompt, "{{input}}")
}
