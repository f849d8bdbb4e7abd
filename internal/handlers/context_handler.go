package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kizuna-chat/kizuna-server/internal/i18n"
	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/kizuna-chat/kizuna-server/internal/services/storage"
	"github.com/sirupsen/logrus"
)

// ContextHandler manages per-chat background descriptions and per-user
// context templates.
type ContextHandler struct {
	storage   *storage.Manager
	localizer *i18n.Localizer
	logger    *logrus.Logger
}

func NewContextHandler(storageManager *storage.Manager, localizer *i18n.Localizer, logger *logrus.Logger) *ContextHandler {
	return &ContextHandler{storage: storageManager, localizer: localizer, logger: logger}
}

func requestLanguage(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	if models.DisplayLanguage(lang).Valid() {
		return lang
	}
	return string(models.LangVietnamese)
}

// GetBackground handles GET /api/chats/{chatId}/context.
func (h *ContextHandler) GetBackground(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	background, err := h.storage.GetBackground(r.Context(), chatID)
	if err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to load background")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}
	if background == nil {
		writeError(w, http.StatusNotFound, h.localizer.Get(requestLanguage(r), i18n.MsgNotFound, nil))
		return
	}

	writeJSON(w, http.StatusOK, background)
}

type upsertBackgroundRequest struct {
	Description string `json:"contextDescription"`
}

type upsertBackgroundResponse struct {
	models.ChatBackground
	Message string `json:"message"`
}

// UpsertBackground handles PUT /api/chats/{chatId}/context.
func (h *ContextHandler) UpsertBackground(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	var req upsertBackgroundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Description == "" {
		writeError(w, http.StatusBadRequest, h.localizer.Get(requestLanguage(r), i18n.MsgInvalidRequest, nil))
		return
	}

	background := &models.ChatBackground{
		ChatID:      chatID,
		Description: req.Description,
		UpdatedAt:   time.Now(),
	}
	if err := h.storage.SaveBackground(r.Context(), background); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to save background")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	writeJSON(w, http.StatusOK, upsertBackgroundResponse{
		ChatBackground: *background,
		Message:        h.localizer.Get(requestLanguage(r), i18n.MsgContextSaved, nil),
	})
}

// DeleteBackground handles DELETE /api/chats/{chatId}/context.
func (h *ContextHandler) DeleteBackground(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	if err := h.storage.DeleteBackground(r.Context(), chatID); err != nil {
		h.logger.WithError(err).WithField("chat_id", chatID).Error("Failed to delete background")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": h.localizer.Get(requestLanguage(r), i18n.MsgContextDeleted, nil),
	})
}

// ListTemplates handles GET /api/context/templates.
func (h *ContextHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)

	templates, err := h.storage.GetTemplates(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load templates")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}
	if templates == nil {
		templates = []models.ContextTemplate{}
	}

	writeJSON(w, http.StatusOK, templates)
}

type createTemplateRequest struct {
	Name        string `json:"templateName"`
	Description string `json:"description"`
}

// CreateTemplate handles POST /api/context/templates.
func (h *ContextHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)

	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, h.localizer.Get(requestLanguage(r), i18n.MsgInvalidRequest, nil))
		return
	}

	template := &models.ContextTemplate{
		TemplateID:  newID(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := h.storage.SaveTemplate(r.Context(), template); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to save template")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	writeJSON(w, http.StatusCreated, template)
}

// DeleteTemplate handles DELETE /api/context/templates/{templateId}.
func (h *ContextHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID := clientKey(r)
	templateID := mux.Vars(r)["templateId"]

	if err := h.storage.DeleteTemplate(r.Context(), userID, templateID); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to delete template")
		writeError(w, http.StatusInternalServerError, h.localizer.Get(requestLanguage(r), i18n.MsgInternalError, nil))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"deleted": templateID})
}
