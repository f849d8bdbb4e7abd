package ai

import (
	"context"
	"time"

	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/sirupsen/logrus"
)

// summaryPayload is the structured output of the summary-tier model.
type summaryPayload struct {
	Summary             string   `json:"summary"`
	KeyTopics           []string `json:"keyTopics"`
	RelationshipContext string   `json:"relationshipContext"`
}

// Summarizer decides whether a new rolling summary is due and generates it.
// Summarization is an enhancement: every failure path returns nil so the
// primary response is never blocked.
type Summarizer struct {
	gateway  Gateway
	registry *Registry
	logger   *logrus.Logger
}

func NewSummarizer(gateway Gateway, registry *Registry, logger *logrus.Logger) *Summarizer {
	return &Summarizer{gateway: gateway, registry: registry, logger: logger}
}

// MaybeSummarize returns a fresh rolling summary when the supplied context
// has reached SummaryThreshold, and nil otherwise. Below the threshold no
// summarization is attempted regardless of a prior summary. The whole
// supplied context is folded in, not just the recent window, and the
// resulting MessageCount is the context length at this moment.
func (s *Summarizer) MaybeSummarize(ctx context.Context, history []models.ContextMessage, existingSummary string, lang models.DisplayLanguage) *models.ConversationSummary {
	if len(history) < SummaryThreshold {
		return nil
	}

	schema, err := s.registry.Lookup(SchemaSummary, lang)
	if err != nil {
		s.logger.WithError(err).Error("Summary schema lookup failed")
		return nil
	}

	messages := buildSummaryMessages(history, existingSummary, lang)

	var payload summaryPayload
	if err := s.gateway.Invoke(ctx, messages, schema, TierSummary, &payload); err != nil {
		s.logger.WithFields(logrus.Fields{
			"kind":          KindOf(err),
			"message_count": len(history),
		}).WithError(err).Warn("Summarization failed, skipping")
		return nil
	}

	return &models.ConversationSummary{
		Summary:      payload.Summary,
		MessageCount: len(history),
		LastUpdated:  time.Now(),
	}
}
