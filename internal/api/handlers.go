package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/abtest"
	"github.com/wecar/marketing-platform/internal/models"
)

const maxUploadBytes = 1 << 20 // 1MB cap on uploaded content files

type trainRequest struct {
	UserID   string  `json:"user_id"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url,omitempty"`
	PostType string  `json:"post_type"`
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	var missing []string
	if req.UserID == "" {
		missing = append(missing, "user_id")
	}
	if req.Content == "" {
		missing = append(missing, "content")
	}
	if req.PostType == "" {
		missing = append(missing, "post_type")
	}
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "))
		return
	}

	example, err := s.trainingStore.Insert(r.Context(), req.UserID, req.Content, req.ImageURL, req.PostType)
	if err != nil {
		logrus.Errorf("Failed to add training data: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add training data.")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    example,
		Message: "Training data added successfully",
	})
}

type analyzeTextRequest struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Content is required")
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "mixed"
	}

	profile := s.brandVoice.Analyze(req.Content, contentType)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    profile,
		Message: "Brand voice analysis completed successfully",
	})
}

func (s *Server) handleVoiceProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    s.brandVoice.SampleProfile(),
		Message: "Voice profile retrieved successfully",
	})
}

type generateContentRequest struct {
	Prompt       string                    `json:"prompt"`
	ContentType  string                    `json:"content_type"`
	BrandProfile *models.GenerationProfile `json:"brand_profile,omitempty"`
}

func (s *Server) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "social_post"
	}

	var profile models.GenerationProfile
	if req.BrandProfile != nil {
		profile = *req.BrandProfile
	} else {
		sample := s.brandVoice.SampleProfile()
		profile = models.GenerationProfile{
			DominantTone: sample.DominantTone,
			WritingStyle: sample.WritingStyle,
		}
	}

	generated := s.brandVoice.GenerateContent(req.Prompt, profile, contentType)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data: map[string]interface{}{
			"generated_content":  generated,
			"prompt":             req.Prompt,
			"content_type":       contentType,
			"brand_profile_used": profile,
		},
		Message: "Content generated successfully with brand voice",
	})
}

// sampleContent is a fixed demo post used by the sample-analysis endpoint
const sampleContent = "Just listed! Beautiful 3-bedroom home in Windsor-Essex with stunning curb appeal and move-in ready condition. " +
	"\n\nThis property features an open-concept layout, updated kitchen, and spacious backyard perfect for entertaining. " +
	"Located in a quiet neighborhood with excellent schools nearby.\n\nThinking of buying or selling? I'm here to help guide you through every step of the process. " +
	"With over 10 years of experience in the Windsor-Essex market, I provide personalised service and expert advice.\n\n" +
	"Ready to find your dream home? Let's chat! Send me a DM or call today.\n\n" +
	"#WindsorEssexRealEstate #DreamHome #RealEstateExpert #HomeBuying #PropertyListing"

func (s *Server) handleSampleAnalysis(w http.ResponseWriter, r *http.Request) {
	profile := s.brandVoice.Analyze(sampleContent, "posts")
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    profile,
		Message: "Sample analysis completed successfully",
	})
}

func (s *Server) handleUploadContent(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".txt") {
		writeError(w, http.StatusBadRequest, "Only .txt files are supported")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file.")
		return
	}

	contentType := r.FormValue("content_type")
	if contentType == "" {
		contentType = "mixed"
	}

	profile := s.brandVoice.Analyze(string(content), contentType)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    profile,
		Message: "Content file analysed successfully",
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("user_id")
	if userID == "" {
		userID = "default_user"
	}
	contentType := query.Get("type")
	if contentType == "" {
		contentType = "general"
	}
	platform := query.Get("platform")
	if platform == "" {
		platform = "instagram"
	}

	result := s.recommender.Recommend(r.Context(), userID, contentType, platform)
	writeJSON(w, http.StatusOK, result)
}

type createABTestRequest struct {
	TestName    string              `json:"test_name"`
	BaseContent *abtest.BaseContent `json:"base_content"`
}

func (s *Server) handleCreateABTest(w http.ResponseWriter, r *http.Request) {
	var req createABTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	if req.BaseContent == nil {
		writeError(w, http.StatusBadRequest, "Missing base_content in request.")
		return
	}

	test, err := s.abTests.Create(req.TestName, *req.BaseContent)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: test})
}

func (s *Server) handleListABTests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: s.abTests.List()})
}

func (s *Server) handleGetABTest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	test, analysis, err := s.abTests.Get(id)
	if err != nil {
		if errors.Is(err, abtest.ErrNotFound) {
			writeError(w, http.StatusNotFound, "A/B test not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to look up A/B test.")
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data: map[string]interface{}{
			"test":     test,
			"analysis": analysis,
		},
	})
}

func (s *Server) handleMarketStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.marketData.Current()
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    snapshot,
		Message: "Current market statistics retrieved successfully",
	})
}

func (s *Server) handleMarketTrends(w http.ResponseWriter, r *http.Request) {
	trends := s.marketData.Trends()
	current := s.marketData.Current()
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data: map[string]interface{}{
			"trends":         trends,
			"current_period": current.ReportPeriod,
			"insights":       current.MarketInsights,
			"source":         current.Source,
		},
		Message: "Market trends retrieved successfully",
	})
}
