package server

import (
	"clima/internal/assistant"
	"clima/internal/database"
	"clima/internal/models"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AskRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
	Mode     string `json:"mode" validate:"omitempty,oneof=rules llm"`
}

var validate = validator.New()

type AskResponse struct {
	Answer string `json:"answer"`
	Intent string `json:"intent"`
	Mode   string `json:"mode"`
}

// History is the read side of the question database
type History interface {
	RecentQuestions(limit int) ([]models.QuestionEntry, error)
	IntentCounts() (map[string]int, error)
}

// Server represents the HTTP server
type Server struct {
	service *assistant.Service
	history History
	mux     *http.ServeMux
}

// NewServer creates a new HTTP server. history may be nil.
func NewServer(service *assistant.Service, history History) *Server {
	s := &Server{
		service: service,
		history: history,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ask", s.handleAsk)
	s.mux.HandleFunc("/history", s.handleHistory)
	s.mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Handler exposes the routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

// handleHealth returns the server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().String(),
	})
}

// handleAsk answers one question
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	req.Mode = strings.ToLower(strings.TrimSpace(req.Mode))
	if err := validate.Struct(req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := s.service.Ask(r.Context(), req.Question, req.Mode)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrUnknownMode):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, assistant.ErrLLMUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			log.Printf("Failed to answer %q: %v", req.Question, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AskResponse{
		Answer: entry.Answer,
		Intent: entry.Intent,
		Mode:   entry.Mode,
	})
}

// handleHistory returns recently asked questions
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "History database is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := database.DefaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	questions, err := s.history.RecentQuestions(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	intents, err := s.history.IntentCounts()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":     len(questions),
		"questions": questions,
		"intents":   intents,
	})
}
