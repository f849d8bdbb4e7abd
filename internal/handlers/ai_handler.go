package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kizuna-chat/kizuna-server/internal/i18n"
	"github.com/kizuna-chat/kizuna-server/internal/middleware"
	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/kizuna-chat/kizuna-server/internal/services/ai"
	"github.com/kizuna-chat/kizuna-server/internal/services/cache"
	"github.com/kizuna-chat/kizuna-server/internal/services/storage"
	"github.com/kizuna-chat/kizuna-server/pkg/logger"
	"github.com/kizuna-chat/kizuna-server/pkg/markdown"
	"github.com/sirupsen/logrus"
)

// AIHandler exposes the three analysis operations over HTTP. It glues the
// analysis service to the storage the core deliberately does not own: stored
// backgrounds and rolling summaries flow in, returned summaries flow back.
type AIHandler struct {
	aiService ai.Service
	storage   *storage.Manager
	cache     cache.Service
	limiter   middleware.RateLimiter
	localizer *i18n.Localizer
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

func NewAIHandler(
	aiService ai.Service,
	storageManager *storage.Manager,
	cacheService cache.Service,
	limiter middleware.RateLimiter,
	localizer *i18n.Localizer,
	metrics *middleware.Metrics,
	logger *logrus.Logger,
) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		storage:   storageManager,
		cache:     cacheService,
		limiter:   limiter,
		localizer: localizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// cultureCheckResponse is the wire shape of a culture check, the core result
// plus an HTML rendering of the notes and a localized notice on fallbacks.
type cultureCheckResponse struct {
	models.CultureCheckResult
	CulturalNotesHTML string `json:"culturalNotesHtml"`
	Notice            string `json:"notice,omitempty"`
}

// fallbackNoticeID picks the user-facing message for a default payload. The
// analysis core keeps its note strings fixed; localization happens here.
func fallbackNoticeID(available bool, text string) string {
	if !available {
		return i18n.MsgServiceUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return i18n.MsgContentEmpty
	}
	return i18n.MsgTryAgainLater
}

// CheckCulture handles POST /api/ai/check-culture.
func (h *AIHandler) CheckCulture(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CultureCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, h.localizer.Get(string(models.LangVietnamese), i18n.MsgInvalidRequest, nil))
		return
	}
	req.DisplayLanguage = displayLanguage(req.DisplayLanguage)

	if !h.limiter.Allow(clientKey(r)) {
		h.metrics.RecordRateLimitExceeded()
		writeError(w, http.StatusTooManyRequests, h.localizer.Get(string(req.DisplayLanguage), i18n.MsgRateLimitExceeded, nil))
		return
	}

	// A context-free check is cacheable: identical text and language give
	// identical advice.
	cacheable := len(req.Context) == 0 && req.ExistingSummary == "" && req.BackgroundDescription == "" && req.ConversationID == ""
	if cacheable {
		if payload, ok := h.cache.Get(r.Context(), req.Text, string(req.DisplayLanguage)); ok {
			h.metrics.RecordCacheHit()
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
		h.metrics.RecordCacheMiss()
	}

	h.hydrateFromStorage(r, &req)

	result := h.aiService.CheckCultureWithSummary(r.Context(), &req)

	if result.ConversationSummary != nil {
		h.metrics.RecordSummaryGenerated()
		h.persistSummary(r, req.ConversationID, result.ConversationSummary)
	} else {
		h.metrics.RecordSummarySkipped()
	}

	response := cultureCheckResponse{
		CultureCheckResult: *result,
		CulturalNotesHTML:  markdown.NotesToHTML(result.CulturalNotes),
	}

	status := "success"
	if len(result.Suggestions) == 0 {
		status = "fallback"
		h.metrics.RecordFallback("check_culture")
		response.Notice = h.localizer.Get(string(req.DisplayLanguage), fallbackNoticeID(h.aiService.IsAvailable(), req.Text), nil)
	}
	h.metrics.RecordAnalysis("check_culture", status, time.Since(start))

	if cacheable && status == "success" {
		if payload, err := json.Marshal(response); err == nil {
			h.cache.Set(r.Context(), req.Text, string(req.DisplayLanguage), payload)
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// hydrateFromStorage fills in the stored background description and rolling
// summary when the request names a conversation but omits them.
func (h *AIHandler) hydrateFromStorage(r *http.Request, req *models.CultureCheckRequest) {
	if req.ConversationID == "" {
		return
	}

	log := logger.WithConversation(h.logger, req.ConversationID, clientKey(r))

	if req.BackgroundDescription == "" {
		start := time.Now()
		background, err := h.storage.GetBackground(r.Context(), req.ConversationID)
		h.recordStorage("get_background", err, start)
		if err != nil {
			log.WithError(err).Warn("Failed to load background")
		} else if background != nil {
			req.BackgroundDescription = background.Description
		}
	}

	if req.ExistingSummary == "" {
		start := time.Now()
		summary, err := h.storage.GetSummary(r.Context(), req.ConversationID)
		h.recordStorage("get_summary", err, start)
		if err != nil {
			log.WithError(err).Warn("Failed to load summary")
		} else if summary != nil {
			req.ExistingSummary = summary.Summary
		}
	}
}

func (h *AIHandler) persistSummary(r *http.Request, conversationID string, summary *models.ConversationSummary) {
	if conversationID == "" {
		return
	}
	start := time.Now()
	err := h.storage.SaveSummary(r.Context(), conversationID, summary)
	h.recordStorage("save_summary", err, start)
	if err != nil {
		logger.WithConversation(h.logger, conversationID, clientKey(r)).WithError(err).Warn("Failed to persist summary")
	}
}

func (h *AIHandler) recordStorage(operation string, err error, start time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordStorageOperation(operation, status, time.Since(start))
}

type analyzeReceivedRequest struct {
	Text                  string                  `json:"text"`
	ChatID                string                  `json:"chatId,omitempty"`
	BackgroundDescription string                  `json:"contextDescription,omitempty"`
	ConversationHistory   []models.ContextMessage `json:"conversationHistory,omitempty"`
	DisplayLanguage       models.DisplayLanguage  `json:"displayLanguage,omitempty"`
}

type receivedAnalysisResponse struct {
	models.ReceivedMessageAnalysis
	Notice string `json:"notice,omitempty"`
}

// AnalyzeReceived handles POST /api/ai/analyze-received.
func (h *AIHandler) AnalyzeReceived(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req analyzeReceivedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, h.localizer.Get(string(models.LangVietnamese), i18n.MsgInvalidRequest, nil))
		return
	}
	req.DisplayLanguage = displayLanguage(req.DisplayLanguage)

	if !h.limiter.Allow(clientKey(r)) {
		h.metrics.RecordRateLimitExceeded()
		writeError(w, http.StatusTooManyRequests, h.localizer.Get(string(req.DisplayLanguage), i18n.MsgRateLimitExceeded, nil))
		return
	}

	if req.BackgroundDescription == "" && req.ChatID != "" {
		opStart := time.Now()
		background, err := h.storage.GetBackground(r.Context(), req.ChatID)
		h.recordStorage("get_background", err, opStart)
		if err == nil && background != nil {
			req.BackgroundDescription = background.Description
		}
	}

	analysis := h.aiService.AnalyzeReceivedMessage(r.Context(), req.Text, req.BackgroundDescription, req.ConversationHistory, req.DisplayLanguage)

	response := receivedAnalysisResponse{ReceivedMessageAnalysis: *analysis}

	status := "success"
	if analysis.IntentSummary == "" && analysis.CulturalNote == "" {
		status = "fallback"
		h.metrics.RecordFallback("analyze_received")
		response.Notice = h.localizer.Get(string(req.DisplayLanguage), fallbackNoticeID(h.aiService.IsAvailable(), req.Text), nil)
	}
	h.metrics.RecordAnalysis("analyze_received", status, time.Since(start))

	writeJSON(w, http.StatusOK, response)
}

type statusResponse struct {
	Available bool   `json:"available"`
	Timestamp string `json:"timestamp"`
}

// Status handles GET /api/ai/status.
func (h *AIHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Available: h.aiService.IsAvailable(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
