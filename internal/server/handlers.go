package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"eco-assistant/internal/application"
)

const dateLayout = "2006-01-02"

// Sample figures returned when no community row exists for today.
const (
	sampleAvgKWhPerUser = 5.2
	sampleTotalCO2Saved = 1.8
)

type askResponse struct {
	Transcript     string  `json:"transcript,omitempty"`
	Answer         string  `json:"answer"`
	AudioURL       *string `json:"audio_url"`
	ConversationID string  `json:"conversation_id"`
	IntentMatched  string  `json:"intent_matched"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Eco Assistant backend is running",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTextAsk(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		s.writeError(w, http.StatusBadRequest, "no text provided")
		return
	}
	userID := r.FormValue("user_id")

	answer, err := s.svc.Ask(r.Context(), text, userID)
	if err != nil {
		s.internalError(w, "text_ask", err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.askPayload(r, "", answer))
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "no audio file provided")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no audio file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, "no audio file selected")
		return
	}
	userID := r.FormValue("user_id")

	transcript, answer, err := s.svc.AskAudio(r.Context(), file, header.Filename, userID)
	if err != nil {
		s.internalError(w, "transcribe", err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.askPayload(r, transcript, answer))
}

func (s *Server) handleCommunityToday(w http.ResponseWriter, r *http.Request) {
	today := time.Now()

	stats, err := s.usage.CommunityStatsForDay(today)
	if err != nil {
		s.internalError(w, "community_usage", err)
		return
	}

	avgKWh, co2 := sampleAvgKWhPerUser, sampleTotalCO2Saved
	if stats != nil {
		avgKWh, co2 = stats.AvgKWhPerUser, stats.TotalCO2Saved
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"date":             today.Format(dateLayout),
		"avg_kwh_per_user": avgKWh,
		"total_co2_saved":  co2,
	})
}

func (s *Server) handleUserUsageToday(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	today := time.Now()

	usage, err := s.usage.UsageForDay(userID, today)
	if err != nil {
		s.internalError(w, "user_usage", err)
		return
	}
	if usage == nil {
		s.writeError(w, http.StatusNotFound, "no usage data found for today")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"user_id":        usage.UserID,
		"date":           usage.Date.Format(dateLayout),
		"kwh_used":       usage.KWhUsed,
		"estimated_cost": usage.EstimatedCost,
		"is_peak_time":   usage.IsPeakTime,
	})
}

func (s *Server) handleAudioFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]
	if name == "" || name != filepath.Base(name) {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	path := filepath.Join(s.audioDir, name)
	if !fileExists(path) {
		s.writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}

func (s *Server) askPayload(r *http.Request, transcript string, answer application.Answer) askResponse {
	resp := askResponse{
		Transcript:     transcript,
		Answer:         answer.Answer,
		ConversationID: answer.ConversationID,
		IntentMatched:  answer.Intent,
	}
	if answer.AudioFile != "" {
		url := strings.TrimRight(s.baseURL(r), "/") + "/" + answer.AudioFile
		resp.AudioURL = &url
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// internalError hides detail from the caller; the cause only goes to the log.
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("handler failed", "op", op, "error", err)
	s.writeError(w, http.StatusInternalServerError, "internal server error")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
