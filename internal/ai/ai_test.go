package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/stylist/internal/persona"
)

func TestDecodeImageAttributes(t *testing.T) {
	got, err := decodeImageAttributes("```json\n{\"articleType\": \"Dress\", \"color\": \"Red\", \"style\": \"party\", \"matches\": [\"heels\", \"clutch\"], \"gender\": \"Women\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "dress", got.ArticleType)
	assert.Equal(t, "red", got.BaseColour)
	assert.Equal(t, "solid", got.Pattern)
	assert.Equal(t, "party", got.StyleDescription)
	assert.Equal(t, []string{"everyday"}, got.SuggestedOccasions)
	assert.Equal(t, []string{"heels", "clutch"}, got.ComplementaryItems)
	assert.Equal(t, "Women", got.Gender)

	got, err = decodeImageAttributes(`{}`)
	require.NoError(t, err)
	assert.Equal(t, "clothing", got.ArticleType)
	assert.Equal(t, "neutral", got.BaseColour)
	assert.Equal(t, "Unisex", got.Gender)
	assert.Empty(t, got.ComplementaryItems)

	_, err = decodeImageAttributes("not json")
	assert.Error(t, err)
}

func TestDecodeEventContext(t *testing.T) {
	ev, err := decodeEventContext(`{"event_type": "wedding", "formality_level": "Semi-Formal", "gender": "Women",
		"color_preferences": ["blush"], "budget_preference": "premium"}`)
	require.NoError(t, err)
	assert.Equal(t, "wedding", ev.EventType)
	assert.Equal(t, "semi-formal", ev.Formality)
	assert.Equal(t, "women", ev.Gender)
	assert.Equal(t, []string{"blush"}, ev.ColorPreferences)

	ev, err = decodeEventContext(`{}`)
	require.NoError(t, err)
	assert.Equal(t, "general occasion", ev.EventType)
	assert.Equal(t, "smart-casual", ev.Formality)

	_, err = decodeEventContext(`[`)
	assert.Error(t, err)
}

func TestEventSchemaCoversRequiredKeys(t *testing.T) {
	for _, k := range eventSchema.Required {
		assert.Contains(t, eventSchema.Properties, k)
	}
	assert.Len(t, eventSchema.Properties, len(eventSchema.Required))
}

func TestBuildSystemPrompt(t *testing.T) {
	p := BuildSystemPrompt(persona.Default(), "1. Navy Blue Blazer - $249.99 (Aisle A1, Bin D1)")
	assert.Contains(t, p, "You are Sam, a personal stylist at the store")
	assert.Contains(t, p, "Navy Blue Blazer - $249.99")
	assert.Contains(t, p, "## Your voice")

	empty := BuildSystemPrompt(persona.Voice{Name: "Mia", Store: "Harbour Street"}, "")
	assert.Contains(t, empty, "None matched yet")
	assert.NotContains(t, empty, "## Your voice")
}

func TestSplitMultiMessage(t *testing.T) {
	assert.Equal(t, []string{"G'day!", "Try the blazer."}, SplitMultiMessage("G'day! ||| Try the blazer. |||"))
	assert.Equal(t, []string{" "}, SplitMultiMessage(" "))
}

func TestFilterAIPatterns(t *testing.T) {
	assert.Equal(t, "The navy dress works.", FilterAIPatterns("As an AI, The navy dress works. I hope this helps!"))
}
