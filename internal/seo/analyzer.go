package seo

import (
	"fmt"
	"strings"

	"github.com/wecar/marketing-platform/internal/models"
)

// Analyzer scores a piece of text for SEO quality based on keyword
// presence, location references, length, and calls to action
type Analyzer struct {
	primaryKeywords  []string
	locationKeywords []string
	ctaPhrases       []string
}

// NewAnalyzer creates an analyzer with the Windsor-Essex real estate
// keyword lists
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		primaryKeywords: []string{
			"windsor",
			"essex",
			"real estate",
			"home",
			"house",
			"property",
			"listing",
			"realtor",
			"agent",
			"condo",
		},
		locationKeywords: []string{
			"tecumseh",
			"lasalle",
			"amherstburg",
			"kingsville",
			"leamington",
			"belle river",
			"walkerville",
			"south windsor",
		},
		ctaPhrases: []string{
			"contact me",
			"dm me",
			"call now",
			"learn more",
			"schedule a viewing",
		},
	}
}

// Analyze returns an SEO score (0-100) and a non-empty list of
// recommendations for the given text. Two calls with identical text
// always give identical results.
func (a *Analyzer) Analyze(text string) models.SeoResult {
	if strings.TrimSpace(text) == "" {
		return models.SeoResult{
			Score:           0,
			Recommendations: []string{"Content is empty."},
		}
	}

	textLower := strings.ToLower(text)
	var recommendations []string
	score := 0

	// 1. Keyword presence (max 50 points)
	primaryFound := 0
	for _, keyword := range a.primaryKeywords {
		if strings.Contains(textLower, keyword) {
			primaryFound++
		}
	}
	keywordPoints := primaryFound * 5
	if keywordPoints > 50 {
		keywordPoints = 50
	}
	score += keywordPoints
	if primaryFound < 3 {
		recommendations = append(recommendations,
			"Include more primary keywords like 'Windsor', 'real estate', 'home'.")
	}

	// 2. Location specificity (max 20 points)
	locationFound := false
	for _, keyword := range a.locationKeywords {
		if strings.Contains(textLower, keyword) {
			locationFound = true
			break
		}
	}
	if locationFound {
		score += 20
	} else {
		recommendations = append(recommendations,
			"Add a specific location (e.g., 'Tecumseh', 'South Windsor') to target local buyers.")
	}

	// 3. Readability and length (max 20 points)
	wordCount := len(strings.Fields(text))
	switch {
	case wordCount >= 50 && wordCount <= 150:
		score += 20
	case wordCount >= 25 && wordCount < 50:
		score += 10
	default:
		recommendations = append(recommendations,
			fmt.Sprintf("Content length is %d words. Aim for 50-150 words for optimal engagement.", wordCount))
	}

	// 4. Call to action (max 10 points)
	ctaFound := false
	for _, phrase := range a.ctaPhrases {
		if strings.Contains(textLower, phrase) {
			ctaFound = true
			break
		}
	}
	if ctaFound {
		score += 10
	} else {
		recommendations = append(recommendations,
			"Include a clear call to action (e.g., 'DM me for details').")
	}

	// Component maxima sum to 100, the cap is a safety invariant
	if score > 100 {
		score = 100
	}

	if len(recommendations) == 0 {
		recommendations = []string{"Looks good! This content is well-optimized."}
	}

	return models.SeoResult{
		Score:           score,
		Recommendations: recommendations,
	}
}
