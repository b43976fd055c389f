package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/liao/stylist/internal/stylist"
)

func enumString(desc string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc, Enum: values}
}

func stringList(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: &genai.Schema{Type: genai.TypeString}}
}

// eventSchema 与 stylist.EventContext 的 json tag 一一对应
var eventSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"event_type":            {Type: genai.TypeString, Description: "Type of event (wedding, interview, graduation, date, party, business meeting, etc.)"},
		"formality_level":       enumString("How formal the event is", "very-casual", "casual", "smart-casual", "business-casual", "semi-formal", "formal", "black-tie"),
		"season":                enumString("Season or time of year", "spring", "summer", "autumn", "winter", "unknown"),
		"venue_type":            enumString("Indoor or outdoor venue", "indoor", "outdoor", "mixed", "unknown"),
		"time_of_day":           enumString("When the event takes place", "morning", "afternoon", "evening", "night", "unknown"),
		"weather_consideration": {Type: genai.TypeString, Description: "Any weather-related considerations mentioned"},
		"budget_preference":     enumString("Budget preference if mentioned", "budget-friendly", "moderate", "premium", "luxury", "unspecified"),
		"color_preferences":     stringList("Any color preferences or restrictions mentioned"),
		"style_notes":           {Type: genai.TypeString, Description: "Additional style preferences or requirements"},
		"gender":                enumString("Gender for clothing recommendations", "men", "women", "unisex", "unknown"),
		"specific_requirements": stringList("Any specific requirements (comfortable shoes, pockets, etc.)"),
	},
	Required: []string{
		"event_type", "formality_level", "season", "venue_type", "time_of_day", "weather_consideration",
		"budget_preference", "color_preferences", "style_notes", "gender", "specific_requirements",
	},
}

// ParseEvent 从顾客描述中抽取场合信息
func (c *Client) ParseEvent(ctx context.Context, text string) (stylist.EventContext, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(EventPrompt(), genai.RoleUser),
		Temperature:       genai.Ptr(float32(0.1)),
		MaxOutputTokens:   1024,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    eventSchema,
	}
	contents := []*genai.Content{genai.NewContentFromText("Parse this outfit request: "+text, genai.RoleUser)}

	out, err := c.generate(ctx, "", contents, cfg)
	if err != nil {
		return stylist.EventContext{}, fmt.Errorf("parse event: %w", err)
	}
	return decodeEventContext(out)
}

func decodeEventContext(text string) (stylist.EventContext, error) {
	var ev stylist.EventContext
	if err := json.Unmarshal([]byte(stripFences(text)), &ev); err != nil {
		return stylist.EventContext{}, fmt.Errorf("decode event context: %w", err)
	}
	return ev.Normalize(), nil
}
