package brandvoice

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/wecar/marketing-platform/internal/models"
	"github.com/wecar/marketing-platform/internal/seo"
)

var (
	wordPattern     = regexp.MustCompile(`\b\w+\b`)
	sentencePattern = regexp.MustCompile(`[.!?]`)
)

// Analyzer extracts brand voice characteristics from text and generates
// content with a given voice profile. Analysis is rule-based: word and
// sentence counts, punctuation usage, and emoji presence.
type Analyzer struct {
	seoAnalyzer *seo.Analyzer
}

// NewAnalyzer creates a brand voice analyzer backed by the given SEO analyzer
func NewAnalyzer(seoAnalyzer *seo.Analyzer) *Analyzer {
	return &Analyzer{seoAnalyzer: seoAnalyzer}
}

// Analyze derives a brand voice profile from the provided text. The
// content type label is accepted for API symmetry but does not affect
// scoring. Blank input yields a fixed neutral profile.
func (a *Analyzer) Analyze(content, contentType string) models.BrandVoiceProfile {
	if strings.TrimSpace(content) == "" {
		return models.BrandVoiceProfile{
			DominantTone:      "neutral",
			WritingStyle:      "unknown",
			PersonalityTraits: []string{},
			VocabularyLevel:   "unknown",
			Seo: models.SeoResult{
				Score:           0,
				Recommendations: []string{"Content is empty."},
			},
		}
	}

	text := strings.TrimSpace(content)
	words := wordPattern.FindAllString(text, -1)
	sentences := sentencePattern.Split(text, -1)

	exclamations := strings.Count(text, "!")
	questions := strings.Count(text, "?")

	var tone string
	switch {
	case exclamations > questions:
		tone = "energetic"
	case questions > exclamations:
		tone = "inquisitive"
	default:
		tone = "professional"
	}

	var avgWordLen float64
	if len(words) > 0 {
		totalLen := 0
		for _, w := range words {
			totalLen += len(w)
		}
		avgWordLen = float64(totalLen) / float64(len(words))
	}

	var vocabLevel string
	switch {
	case avgWordLen > 6:
		vocabLevel = "advanced"
	case avgWordLen > 4:
		vocabLevel = "intermediate"
	default:
		vocabLevel = "basic"
	}

	strength := int(math.Round(float64(len(words))*0.5 + float64(exclamations)*5 + float64(questions)*3))
	if strength > 100 {
		strength = 100
	}

	style := "balanced"
	if len(sentences) > 3 {
		style = "detailed"
	}

	// The short/long sentence flags use total word count thresholds, not
	// per-sentence length; both can be false at once
	fieldCount := len(strings.Fields(text))

	return models.BrandVoiceProfile{
		DominantTone:      tone,
		WritingStyle:      style,
		PersonalityTraits: []string{tone},
		CommunicationPreferences: models.CommunicationPreferences{
			UsesQuestions:         questions > 0,
			UsesExclamations:      exclamations > 0,
			UsesEmojis:            containsEmoji(text),
			PrefersShortSentences: fieldCount < 50,
			PrefersLongSentences:  fieldCount > 100,
		},
		VocabularyLevel:    vocabLevel,
		BrandVoiceStrength: strength,
		Seo:                a.seoAnalyzer.Analyze(text),
	}
}

// GenerateContent produces content from a prompt using the supplied voice
// profile. This is a templating operation, not generative text synthesis:
// the profile's tone, style, and hashtags are appended to the prompt.
func (a *Analyzer) GenerateContent(prompt string, profile models.GenerationProfile, contentType string) string {
	tone := profile.DominantTone
	if tone == "" {
		tone = "professional"
	}
	style := profile.WritingStyle
	if style == "" {
		style = "balanced"
	}
	hashtags := profile.Hashtags
	if len(hashtags) == 0 {
		hashtags = []string{"#RealEstate", "#Windsor"}
	}

	return fmt.Sprintf("%s\n\n(Tone: %s, Style: %s)\n%s",
		prompt, tone, style, strings.Join(hashtags, " "))
}

// SampleProfile returns a fixed demo profile used when no caller-supplied
// profile exists
func (a *Analyzer) SampleProfile() models.BrandVoiceProfile {
	return models.BrandVoiceProfile{
		DominantTone:      "professional",
		WritingStyle:      "balanced",
		PersonalityTraits: []string{"professional", "helpful", "knowledgeable"},
		CommunicationPreferences: models.CommunicationPreferences{
			UsesQuestions:         true,
			UsesExclamations:      false,
			UsesEmojis:            true,
			PrefersShortSentences: false,
			PrefersLongSentences:  false,
		},
		VocabularyLevel:    "professional",
		BrandVoiceStrength: 75,
		LastUpdated:        time.Now().UTC().Format(time.RFC3339),
	}
}

// containsEmoji reports whether text contains a code point in the
// emoticon block (U+1F600-U+1F64F)
func containsEmoji(text string) bool {
	for _, r := range text {
		if r >= 0x1F600 && r <= 0x1F64F {
			return true
		}
	}
	return false
}
