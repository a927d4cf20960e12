package models

import "time"

// TrainingExample represents a single piece of user-submitted content used
// to ground brand voice analysis and recommendation generation
type TrainingExample struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url,omitempty"`
	PostType  string    `json:"post_type"` // "posts", "listing", "market_update", etc.
	CreatedAt time.Time `json:"created_at"`
}

// SeoResult holds the outcome of an SEO content analysis
type SeoResult struct {
	Score           int      `json:"score"`           // 0-100
	Recommendations []string `json:"recommendations"` // never empty
}

// CommunicationPreferences captures punctuation and length habits detected
// in analyzed content
type CommunicationPreferences struct {
	UsesQuestions         bool `json:"uses_questions"`
	UsesExclamations      bool `json:"uses_exclamations"`
	UsesEmojis            bool `json:"uses_emojis"`
	PrefersShortSentences bool `json:"prefers_short_sentences"`
	PrefersLongSentences  bool `json:"prefers_long_sentences"`
}

// BrandVoiceProfile is the derived voice profile for a piece of content.
// It is recomputed per request and never persisted.
type BrandVoiceProfile struct {
	DominantTone             string                   `json:"dominant_tone"` // "energetic", "inquisitive", "professional", "neutral"
	WritingStyle             string                   `json:"writing_style"` // "balanced", "detailed", "unknown"
	PersonalityTraits        []string                 `json:"personality_traits"`
	CommunicationPreferences CommunicationPreferences `json:"communication_preferences"`
	VocabularyLevel          string                   `json:"vocabulary_level"`     // "basic", "intermediate", "advanced", "unknown", "professional"
	BrandVoiceStrength       int                      `json:"brand_voice_strength"` // 0-100
	Seo                      SeoResult                `json:"seo"`
	LastUpdated              string                   `json:"last_updated,omitempty"`
}

// GenerationProfile is the caller-supplied subset of a brand profile used
// for content generation. Absent fields fall back to defaults.
type GenerationProfile struct {
	DominantTone string   `json:"dominant_tone,omitempty"`
	WritingStyle string   `json:"writing_style,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
}

// Recommendation is a single generated content suggestion
type Recommendation struct {
	Content            string   `json:"content"`
	Focus              string   `json:"focus"`
	Hashtags           []string `json:"hashtags"`
	SeoScore           int      `json:"seo_score"`
	SeoRecommendations []string `json:"seo_recommendations"`
}

// RecommendationResult is the outcome of a recommendation request. A user
// without training data yields Success=false with an explanatory error.
type RecommendationResult struct {
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// ABTestVariation is one generated variant inside an A/B test
type ABTestVariation struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Hashtags    []string `json:"hashtags"`
	ImagePrompt string   `json:"image_prompt,omitempty"`
}

// ABTest is a named experiment holding generated content variations.
// Tests live in an in-memory registry for the process lifetime only.
type ABTest struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	ContentType string            `json:"content_type"`
	Platform    string            `json:"platform"`
	Variations  []ABTestVariation `json:"variations"`
	Status      string            `json:"status"` // "draft", "running", "complete"
}

// ABTestAnalysis is the canned narrative attached to a test lookup
type ABTestAnalysis struct {
	Summary    string   `json:"summary"`
	Winner     string   `json:"winner"`
	NextSteps  []string `json:"next_steps"`
	Confidence string   `json:"confidence"`
}

// MarketInsights summarizes qualitative market conditions
type MarketInsights struct {
	MarketTrend  string   `json:"market_trend"`
	BuyerMarket  bool     `json:"buyer_market"`
	SellerMarket bool     `json:"seller_market"`
	KeyPoints    []string `json:"key_points"`
}

// MarketSnapshot holds current market statistics. Values are placeholder
// figures, not measured data.
type MarketSnapshot struct {
	Source               string         `json:"source"`
	ReportPeriod         string         `json:"report_period"`
	NewListings          int            `json:"new_listings"`
	PropertiesSold       int            `json:"properties_sold"`
	AveragePrice         int            `json:"average_price"`
	NewListingsChange    string         `json:"new_listings_change"`
	PropertiesSoldChange string         `json:"properties_sold_change"`
	AveragePriceChange   string         `json:"average_price_change"`
	MarketInsights       MarketInsights `json:"market_insights"`
	Status               string         `json:"status"`
	LastUpdated          string         `json:"last_updated"`
}

// MonthlyTrend is one synthetic entry in the historical trend series
type MonthlyTrend struct {
	Month          string `json:"month"`
	NewListings    int    `json:"new_listings"`
	PropertiesSold int    `json:"properties_sold"`
	AveragePrice   int    `json:"average_price"`
}

// ActivityReport is a periodic digest of platform activity
type ActivityReport struct {
	GeneratedAt    time.Time              `json:"generated_at"`
	Period         string                 `json:"period"` // "daily" or "weekly"
	NewExamples    int                    `json:"new_examples"`
	ActiveABTests  int                    `json:"active_ab_tests"`
	RecentExamples []TrainingExample      `json:"recent_examples"`
	Summary        map[string]interface{} `json:"summary"`
}
