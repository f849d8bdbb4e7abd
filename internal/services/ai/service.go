package ai

import (
	"context"
	"strconv"
	"strings"

	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/sirupsen/logrus"
)

// Default fallback notes. AI analysis is best-effort and advisory: callers
// always get some result, never an error.
const (
	noteNotConfigured = "AI service is not configured."
	noteEmptyInput    = "Content is empty."
	noteTryAgain      = "Try again later."
)

// Service is the façade callers interact with. It sequences prompt assembly,
// gateway invocation and summarization, and converts every internal failure
// into a deterministic default payload.
type Service interface {
	CheckCulture(ctx context.Context, text string, history []models.ContextMessage, lang models.DisplayLanguage) *models.CultureCheckResult
	CheckCultureWithSummary(ctx context.Context, req *models.CultureCheckRequest) *models.CultureCheckResult
	AnalyzeReceivedMessage(ctx context.Context, text, background string, history []models.ContextMessage, lang models.DisplayLanguage) *models.ReceivedMessageAnalysis
	IsAvailable() bool
}

type service struct {
	gateway    Gateway
	registry   *Registry
	summarizer *Summarizer
	logger     *logrus.Logger
}

// NewService creates the analysis service. The gateway is injected so tests
// can substitute a stub.
func NewService(gateway Gateway, logger *logrus.Logger) Service {
	registry := NewRegistry()
	return &service{
		gateway:    gateway,
		registry:   registry,
		summarizer: NewSummarizer(gateway, registry, logger),
		logger:     logger,
	}
}

// cultureCheckPayload is the structured output of a culture check.
type cultureCheckPayload struct {
	CulturalNotes string                `json:"culturalNotes"`
	Suggestions   []models.AISuggestion `json:"suggestions"`
}

func (s *service) IsAvailable() bool {
	return s.gateway.Available()
}

// CheckCulture proposes alternative phrasings for an outbound message. No
// summarization branch.
func (s *service) CheckCulture(ctx context.Context, text string, history []models.ContextMessage, lang models.DisplayLanguage) *models.CultureCheckResult {
	if !s.gateway.Available() {
		return defaultCultureResult(noteNotConfigured)
	}
	if strings.TrimSpace(text) == "" {
		return defaultCultureResult(noteEmptyInput)
	}

	result, err := s.runCultureCheck(ctx, text, history, "", lang, "")
	if err != nil {
		s.logger.WithField("kind", KindOf(err)).WithError(err).Error("Culture check failed")
		return defaultCultureResult(noteTryAgain)
	}
	return result
}

// CheckCultureWithSummary is CheckCulture plus background/summary context in
// the prompt and, once the history reaches the threshold, a second
// summary-tier round trip. The primary result is obtained first so the fast
// path is preserved whenever summarization is skipped.
func (s *service) CheckCultureWithSummary(ctx context.Context, req *models.CultureCheckRequest) *models.CultureCheckResult {
	if !s.gateway.Available() {
		return defaultCultureResult(noteNotConfigured)
	}
	if strings.TrimSpace(req.Text) == "" {
		return defaultCultureResult(noteEmptyInput)
	}

	result, err := s.runCultureCheck(ctx, req.Text, req.Context, req.ExistingSummary, req.DisplayLanguage, req.BackgroundDescription)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"kind":            KindOf(err),
			"conversation_id": req.ConversationID,
		}).WithError(err).Error("Culture check with summary failed")
		return defaultCultureResult(noteTryAgain)
	}

	if summary := s.summarizer.MaybeSummarize(ctx, req.Context, req.ExistingSummary, req.DisplayLanguage); summary != nil {
		result.ConversationSummary = summary
	}

	return result
}

func (s *service) runCultureCheck(ctx context.Context, text string, history []models.ContextMessage, existingSummary string, lang models.DisplayLanguage, background string) (*models.CultureCheckResult, error) {
	schema, err := s.registry.Lookup(SchemaCultureCheck, lang)
	if err != nil {
		return nil, err
	}

	messages := BuildCultureCheckMessages(text, history, existingSummary, lang, background)

	var payload cultureCheckPayload
	if err := s.gateway.Invoke(ctx, messages, schema, TierPrimary, &payload); err != nil {
		return nil, err
	}

	return &models.CultureCheckResult{
		CulturalNotes: payload.CulturalNotes,
		Suggestions:   assignSuggestionIDs(payload.Suggestions),
	}, nil
}

// AnalyzeReceivedMessage decodes an inbound message's translation, intent
// and cultural subtext.
func (s *service) AnalyzeReceivedMessage(ctx context.Context, text, background string, history []models.ContextMessage, lang models.DisplayLanguage) *models.ReceivedMessageAnalysis {
	if !s.gateway.Available() {
		return defaultReceivedAnalysis(noteNotConfigured)
	}
	if strings.TrimSpace(text) == "" {
		return defaultReceivedAnalysis(noteEmptyInput)
	}

	schema, err := s.registry.Lookup(SchemaReceivedAnalysis, lang)
	if err != nil {
		s.logger.WithError(err).Error("Received analysis schema lookup failed")
		return defaultReceivedAnalysis(noteTryAgain)
	}

	messages := BuildReceivedMessageMessages(text, background, history, lang)

	var analysis models.ReceivedMessageAnalysis
	if err := s.gateway.Invoke(ctx, messages, schema, TierPrimary, &analysis); err != nil {
		s.logger.WithField("kind", KindOf(err)).WithError(err).Error("Received message analysis failed")
		return defaultReceivedAnalysis(noteTryAgain)
	}

	return &analysis
}

// assignSuggestionIDs fills in positional ids ("1", "2", ...) for any
// suggestion the model returned without one.
func assignSuggestionIDs(suggestions []models.AISuggestion) []models.AISuggestion {
	if suggestions == nil {
		return []models.AISuggestion{}
	}
	for i := range suggestions {
		if suggestions[i].ID == "" {
			suggestions[i].ID = strconv.Itoa(i + 1)
		}
	}
	return suggestions
}

func defaultCultureResult(note string) *models.CultureCheckResult {
	return &models.CultureCheckResult{
		CulturalNotes: note,
		Suggestions:   []models.AISuggestion{},
	}
}

func defaultReceivedAnalysis(note string) *models.ReceivedMessageAnalysis {
	return &models.ReceivedMessageAnalysis{
		TranslatedText:       note,
		IntentSummary:        "",
		CulturalNote:         "",
		IsIndirectExpression: false,
	}
}
