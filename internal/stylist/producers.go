package stylist

import (
	"context"
	"strings"
)

// ImageAttributes 视觉模型对一张服装图片给出的结构化描述
type ImageAttributes struct {
	ArticleType        string   `json:"article_type"`
	BaseColour         string   `json:"base_colour"`
	Pattern            string   `json:"pattern"`
	StyleDescription   string   `json:"style_description"`
	SuggestedOccasions []string `json:"suggested_occasions"`
	ComplementaryItems []string `json:"complementary_items"`
	Gender             string   `json:"gender"`
}

// EventContext 从一段自由文本里解析出的场合信息
type EventContext struct {
	EventType            string   `json:"event_type"`
	Formality            string   `json:"formality_level"`
	Season               string   `json:"season"`
	Venue                string   `json:"venue_type"`
	TimeOfDay            string   `json:"time_of_day"`
	Weather              string   `json:"weather_consideration"`
	BudgetPreference     string   `json:"budget_preference"`
	ColorPreferences     []string `json:"color_preferences"`
	StyleNotes           string   `json:"style_notes"`
	Gender               string   `json:"gender"`
	SpecificRequirements []string `json:"specific_requirements"`
}

type VisionAnalyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (ImageAttributes, error)
}

type EventParser interface {
	ParseEvent(ctx context.Context, text string) (EventContext, error)
}

// OfflineVision 无 API key 时的演示结果
type OfflineVision struct{}

func (OfflineVision) Analyze(context.Context, []byte, string) (ImageAttributes, error) {
	return ImageAttributes{
		ArticleType:        "shirt",
		BaseColour:         "blue",
		Pattern:            "solid",
		StyleDescription:   "casual",
		SuggestedOccasions: []string{"casual", "everyday"},
		ComplementaryItems: []string{"jeans", "sneakers"},
		Gender:             "Men",
	}, nil
}

// UnknownImage 视觉模型失败时使用的中性描述
func UnknownImage() ImageAttributes {
	return ImageAttributes{
		ArticleType:        "clothing",
		BaseColour:         "neutral",
		StyleDescription:   "casual",
		SuggestedOccasions: []string{"everyday"},
		ComplementaryItems: []string{"accessories", "matching items"},
		Gender:             "Unisex",
	}
}

// OfflineEvents 无 API key 时的演示结果
type OfflineEvents struct{}

func (OfflineEvents) ParseEvent(context.Context, string) (EventContext, error) {
	return EventContext{
		EventType:            "graduation ceremony",
		Formality:            "smart-casual",
		Season:               "spring",
		Venue:                "outdoor",
		TimeOfDay:            "afternoon",
		Weather:              "sunny and warm",
		BudgetPreference:     "moderate",
		ColorPreferences:     []string{"emerald", "navy", "neutral"},
		StyleNotes:           "Elegant but comfortable for standing/walking",
		Gender:               "women",
		SpecificRequirements: []string{"comfortable shoes", "sun-appropriate"},
	}, nil
}

// GeneralOccasion 解析失败时使用的默认场合
func GeneralOccasion() EventContext {
	return EventContext{
		EventType:            "general occasion",
		Formality:            "smart-casual",
		Season:               "unknown",
		Venue:                "unknown",
		TimeOfDay:            "unknown",
		BudgetPreference:     "unspecified",
		ColorPreferences:     []string{},
		Gender:               "unknown",
		SpecificRequirements: []string{},
	}
}

// Normalize 补齐空字段，统一大小写
func (e EventContext) Normalize() EventContext {
	def := GeneralOccasion()
	e.EventType = strings.TrimSpace(e.EventType)
	if e.EventType == "" {
		e.EventType = def.EventType
	}
	e.Formality = strings.ToLower(strings.TrimSpace(e.Formality))
	if e.Formality == "" {
		e.Formality = def.Formality
	}
	e.Gender = strings.ToLower(strings.TrimSpace(e.Gender))
	if e.Gender == "" {
		e.Gender = def.Gender
	}
	return e
}
