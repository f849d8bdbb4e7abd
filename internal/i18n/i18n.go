package i18n

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Localizer manages user-facing strings in Vietnamese and Japanese.
// The application uses "jp" as its display-language code; BCP-47 calls the
// language "ja", so the code is mapped before touching the bundle.
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage string
	localizers      map[string]*i18n.Localizer
}

func languageTag(code string) string {
	if code == "jp" {
		return "ja"
	}
	return code
}

// NewLocalizer creates a new localizer from the configured message files.
func NewLocalizer(cfg *config.I18nConfig) (*Localizer, error) {
	bundle := i18n.NewBundle(language.Vietnamese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	localizers := make(map[string]*i18n.Localizer)
	for _, code := range cfg.Languages {
		tag := languageTag(code)
		path := filepath.Join(cfg.Directory, fmt.Sprintf("%s.json", tag))
		if _, err := bundle.LoadMessageFile(path); err != nil {
			return nil, fmt.Errorf("failed to load language file %s: %w", path, err)
		}
		localizers[code] = i18n.NewLocalizer(bundle, tag)
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: cfg.DefaultLanguage,
		localizers:      localizers,
	}, nil
}

// Get returns the localized message for the given display-language code.
func (l *Localizer) Get(lang, messageID string, data map[string]interface{}) string {
	localizer, exists := l.localizers[lang]
	if !exists {
		localizer = l.localizers[l.defaultLanguage]
	}
	if localizer == nil {
		return messageID
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID // Fallback to message ID
	}

	return msg
}

// Message IDs
const (
	MsgServiceUnavailable = "service_unavailable"
	MsgContentEmpty       = "content_empty"
	MsgTryAgainLater      = "try_again_later"
	MsgInvalidRequest     = "invalid_request"
	MsgRateLimitExceeded  = "rate_limit_exceeded"
	MsgContextSaved       = "context_saved"
	MsgContextDeleted     = "context_deleted"
	MsgNotFound           = "not_found"
	MsgInternalError      = "internal_error"
)
