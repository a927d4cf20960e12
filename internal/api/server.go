package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wecar/marketing-platform/internal/abtest"
	"github.com/wecar/marketing-platform/internal/brandvoice"
	"github.com/wecar/marketing-platform/internal/digest"
	"github.com/wecar/marketing-platform/internal/market"
	"github.com/wecar/marketing-platform/internal/recommend"
	"github.com/wecar/marketing-platform/internal/store"
)

// Server wires the core services to their HTTP endpoints
type Server struct {
	brandVoice    *brandvoice.Analyzer
	recommender   *recommend.Service
	abTests       *abtest.Service
	marketData    *market.Service
	trainingStore store.TrainingStore
	digestService *digest.Service
}

// NewServer creates an API server over the given services. The digest
// service may be nil when digests are disabled.
func NewServer(
	brandVoice *brandvoice.Analyzer,
	recommender *recommend.Service,
	abTests *abtest.Service,
	marketData *market.Service,
	trainingStore store.TrainingStore,
	digestService *digest.Service,
) *Server {
	return &Server{
		brandVoice:    brandVoice,
		recommender:   recommender,
		abTests:       abTests,
		marketData:    marketData,
		trainingStore: trainingStore,
		digestService: digestService,
	}
}

// Router builds the HTTP router for all API endpoints
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	router.HandleFunc("/trigger", s.handleTrigger).Methods("POST")

	brandVoice := router.PathPrefix("/api/brand-voice").Subrouter()
	brandVoice.HandleFunc("/train", s.handleTrain).Methods("POST")
	brandVoice.HandleFunc("/analyze-text", s.handleAnalyzeText).Methods("POST")
	brandVoice.HandleFunc("/voice-profile", s.handleVoiceProfile).Methods("GET")
	brandVoice.HandleFunc("/generate-content", s.handleGenerateContent).Methods("POST")
	brandVoice.HandleFunc("/sample-analysis", s.handleSampleAnalysis).Methods("GET")
	brandVoice.HandleFunc("/upload-content", s.handleUploadContent).Methods("POST")

	learning := router.PathPrefix("/api/learning").Subrouter()
	learning.HandleFunc("/content-recommendations", s.handleRecommendations).Methods("GET")

	abTesting := router.PathPrefix("/api/ab-testing").Subrouter()
	abTesting.HandleFunc("/create", s.handleCreateABTest).Methods("POST")
	abTesting.HandleFunc("/tests", s.handleListABTests).Methods("GET")
	abTesting.HandleFunc("/tests/{id}", s.handleGetABTest).Methods("GET")

	marketData := router.PathPrefix("/api/market-data").Subrouter()
	marketData.HandleFunc("/current-stats", s.handleMarketStats).Methods("GET")
	marketData.HandleFunc("/market-trends", s.handleMarketTrends).Methods("GET")

	return router
}

// response is the uniform JSON envelope for all endpoints
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Error: message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.digestService == nil {
		writeError(w, http.StatusNotFound, "Digest service is disabled.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.digestService.GetMetrics()))
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if s.digestService == nil {
		writeError(w, http.StatusNotFound, "Digest service is disabled.")
		return
	}
	go func() {
		if err := s.digestService.Run(); err != nil {
			logrus.Errorf("Manual digest trigger failed: %v", err)
		}
	}()
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Digest triggered successfully"})
}
