package ai

import (
	"fmt"

	"github.com/kizuna-chat/kizuna-server/internal/models"
)

// SchemaKind names one structured-output shape the model can be asked for.
type SchemaKind string

const (
	SchemaCultureCheck     SchemaKind = "culture_check_response"
	SchemaSummary          SchemaKind = "conversation_summary"
	SchemaReceivedAnalysis SchemaKind = "received_message_analysis"
)

// Schema is a JSON-Schema document handed to the provider for constrained
// decoding. The shape of each kind is language-invariant; only the
// description hints change language to bias the model's prose fields.
type Schema struct {
	Name       string         `json:"name"`
	Strict     bool           `json:"strict"`
	Definition map[string]any `json:"schema"`
}

type schemaKey struct {
	kind SchemaKind
	lang models.DisplayLanguage
}

// Registry resolves {kind, language} to a prebuilt schema. Built once at
// startup so equivalent schema documents are not rebuilt per call.
type Registry struct {
	schemas map[schemaKey]*Schema
}

// NewRegistry builds all schema variants.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[schemaKey]*Schema)}
	for _, lang := range []models.DisplayLanguage{models.LangVietnamese, models.LangJapanese} {
		r.schemas[schemaKey{SchemaCultureCheck, lang}] = cultureCheckSchema(lang)
		r.schemas[schemaKey{SchemaSummary, lang}] = summarySchema(lang)
		r.schemas[schemaKey{SchemaReceivedAnalysis, lang}] = receivedAnalysisSchema(lang)
	}
	return r
}

// Lookup returns the schema for the given kind and language.
func (r *Registry) Lookup(kind SchemaKind, lang models.DisplayLanguage) (*Schema, error) {
	if !lang.Valid() {
		lang = models.LangVietnamese
	}
	schema, ok := r.schemas[schemaKey{kind, lang}]
	if !ok {
		return nil, fmt.Errorf("unknown schema kind: %s", kind)
	}
	return schema, nil
}

func outputLanguage(lang models.DisplayLanguage) string {
	if lang == models.LangJapanese {
		return "Japanese"
	}
	return "Vietnamese"
}

func labelLanguage(lang models.DisplayLanguage) string {
	if lang == models.LangJapanese {
		return "日本語"
	}
	return "ベトナム語"
}

func suggestionSchema(lang models.DisplayLanguage) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "Unique identifier for the suggestion",
			},
			"level": map[string]any{
				"type":        "string",
				"enum":        []string{"polite", "casual", "formal"},
				"description": "Politeness level",
			},
			"levelLabel": map[string]any{
				"type":        "string",
				"description": fmt.Sprintf("Human-readable label for the level in %s", labelLanguage(lang)),
			},
			"text": map[string]any{
				"type":        "string",
				"description": "The suggested expression",
			},
		},
		"required":             []string{"id", "level", "levelLabel", "text"},
		"additionalProperties": false,
	}
}

func cultureCheckSchema(lang models.DisplayLanguage) *Schema {
	return &Schema{
		Name:   string(SchemaCultureCheck),
		Strict: true,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"culturalNotes": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Cultural explanation in %s, max 5 lines", outputLanguage(lang)),
				},
				"suggestions": map[string]any{
					"type":        "array",
					"items":       suggestionSchema(lang),
					"minItems":    2,
					"maxItems":    3,
					"description": "2-3 alternative expressions",
				},
			},
			"required":             []string{"culturalNotes", "suggestions"},
			"additionalProperties": false,
		},
	}
}

func summarySchema(lang models.DisplayLanguage) *Schema {
	return &Schema{
		Name:   string(SchemaSummary),
		Strict: true,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Concise summary of the conversation in %s", outputLanguage(lang)),
				},
				"keyTopics": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Main topics discussed",
				},
				"relationshipContext": map[string]any{
					"type":        "string",
					"description": "Inferred relationship context (formal/casual/business)",
				},
			},
			"required":             []string{"summary", "keyTopics", "relationshipContext"},
			"additionalProperties": false,
		},
	}
}

func receivedAnalysisSchema(lang models.DisplayLanguage) *Schema {
	return &Schema{
		Name:   string(SchemaReceivedAnalysis),
		Strict: true,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"translatedText": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("%s translation with inferred subjects in [brackets]", outputLanguage(lang)),
				},
				"intentSummary": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Brief explanation of the real intent in %s, 1-2 sentences", outputLanguage(lang)),
				},
				"culturalNote": map[string]any{
					"type":        "string",
					"description": fmt.Sprintf("Cultural context note in %s, 1-2 sentences", outputLanguage(lang)),
				},
				"isIndirectExpression": map[string]any{
					"type":        "boolean",
					"description": "True if the message uses indirect expression, polite refusal, or euphemism",
				},
			},
			"required":             []string{"translatedText", "intentSummary", "culturalNote", "isIndirectExpression"},
			"additionalProperties": false,
		},
	}
}
