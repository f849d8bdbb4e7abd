package models

import (
	"time"
)

// Sender identifies which side of the conversation a context message came from.
type Sender string

const (
	SenderSelf  Sender = "self"
	SenderOther Sender = "other"
)

// DisplayLanguage selects the language of all AI-generated prose.
type DisplayLanguage string

const (
	LangVietnamese DisplayLanguage = "vi"
	LangJapanese   DisplayLanguage = "jp"
)

// Valid reports whether l is a supported display language.
func (l DisplayLanguage) Valid() bool {
	return l == LangVietnamese || l == LangJapanese
}

// ContextMessage is one prior turn of the conversation, supplied per request.
type ContextMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// ConversationSummary is a rolling compression of conversation history.
// MessageCount reflects the context length at the moment of generation,
// not a running total.
type ConversationSummary struct {
	Summary      string    `json:"summary"`
	MessageCount int       `json:"messageCount"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// AISuggestion is one proposed alternative phrasing at a politeness level.
type AISuggestion struct {
	ID         string `json:"id"`
	Level      string `json:"level"` // polite | casual | formal
	LevelLabel string `json:"levelLabel"`
	Text       string `json:"text"`
}

// CultureCheckResult is the outcome of a culture check on an outbound message.
type CultureCheckResult struct {
	CulturalNotes       string               `json:"culturalNotes"`
	Suggestions         []AISuggestion       `json:"suggestions"`
	ConversationSummary *ConversationSummary `json:"conversationSummary,omitempty"`
}

// CultureCheckRequest aggregates the inputs of a culture check with
// summarization support.
type CultureCheckRequest struct {
	Text                  string           `json:"text"`
	Context               []ContextMessage `json:"context,omitempty"`
	ConversationID        string           `json:"conversationId,omitempty"`
	ExistingSummary       string           `json:"existingSummary,omitempty"`
	DisplayLanguage       DisplayLanguage  `json:"displayLanguage,omitempty"`
	BackgroundDescription string           `json:"contextDescription,omitempty"`
}

// ReceivedMessageAnalysis decodes an inbound Japanese message: translation
// with inferred subjects in [brackets], the underlying intent, and cultural
// subtext.
type ReceivedMessageAnalysis struct {
	TranslatedText       string `json:"translatedText"`
	IntentSummary        string `json:"intentSummary"`
	CulturalNote         string `json:"culturalNote"`
	IsIndirectExpression bool   `json:"isIndirectExpression"`
}

// ChatBackground is the user-set scene description for a conversation,
// distinct from the rolling summary.
type ChatBackground struct {
	ChatID      string    `json:"chatId"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContextTemplate is a reusable background description saved by a user.
type ContextTemplate struct {
	TemplateID  string    `json:"templateId"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HistoryEntry records a suggestion the user picked for an outbound message.
type HistoryEntry struct {
	HistoryID       string    `json:"historyId"`
	UserID          string    `json:"userId"`
	ChatID          string    `json:"chatId,omitempty"`
	ReceiverName    string    `json:"receiverName,omitempty"`
	OriginalText    string    `json:"originalText"`
	SelectedText    string    `json:"selectedSuggestion"`
	SuggestionLevel string    `json:"suggestionLevel,omitempty"`
	CulturalNotes   string    `json:"culturalNotes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
