package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kizuna-chat/kizuna-server/internal/i18n"
	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/kizuna-chat/kizuna-server/internal/services/storage"
	"github.com/sirupsen/logrus"
)

// HistoryHandler records and serves which suggestions a user actually picked.
type HistoryHandler struct {
	storage   *storage.Manager
	localizer *i18n.Localizer
	logger    *logrus.Logger
}

func NewHistoryHandler(storageManager *storage.Manager, localizer *i18n.Localizer, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{storage: storageManager, localizer: localizer, logger: logger}
}

type createHistoryRequest struct {
	ChatID          string `json:"chatId,omitempty"`
	ReceiverName    string `json:"receiverName,omitempty"`
	OriginalText    string `json:"originalText"`
	SelectedText    string `json:"selectedSuggestion"`
	SuggestionLevel string `json:"suggestionLevel,omitempty"`
	CulturalNotes   string `json:"culturalNotes,omitempty"`
}

// Create handles POST /api/history.
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)

	var req createHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OriginalText == "" || req.SelectedText == "" {
		writeError(w, http.StatusBadRequest, h.localizer.Get(requestLanguage(r), i18n.MsgInvalidRequest, nil))
		return
	}

	entry := &models.HistoryEntry{
		HistoryID:       newID(),
		UserID:          userID,
		ChatID:          req.ChatID,
		ReceiverName:    req.ReceiverName,
		OriginalText:    req.OriginalText,
		SelectedText:    req.SelectedText,
		SuggestionLevel: req.SuggestionLevel,
		CulturalNotes:   req.CulturalNotes,
		CreatedAt:       time.Now(),
	}
	if err := h.storage.AppendHistory(r.Context(), entry); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to append history")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

type historyListResponse struct {
	Items []models.HistoryEntry `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// List handles GET /api/history with page/limit pagination, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, err := h.storage.GetHistory(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load history")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	if receiver := r.URL.Query().Get("receiver"); receiver != "" {
		filtered := make([]models.HistoryEntry, 0, len(entries))
		for _, e := range entries {
			if e.ReceiverName == receiver {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	total := len(entries)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	items := entries[start:end]
	if items == nil {
		items = []models.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, historyListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListReceivers handles GET /api/history/receivers: the distinct receiver
// names across the user's entries, newest first.
func (h *HistoryHandler) ListReceivers(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)

	entries, err := h.storage.GetHistory(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load history")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	seen := make(map[string]bool)
	receivers := []string{}
	for _, e := range entries {
		if e.ReceiverName == "" || seen[e.ReceiverName] {
			continue
		}
		seen[e.ReceiverName] = true
		receivers = append(receivers, e.ReceiverName)
	}

	writeJSON(w, http.StatusOK, receivers)
}

// Delete handles DELETE /api/history/{historyId}.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)
	historyID := mux.Vars(r)["historyId"]

	if err := h.storage.DeleteHistory(r.Context(), userID, historyID); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to delete history entry")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": historyID})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
