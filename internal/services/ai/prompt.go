package ai

import (
	"fmt"
	"strings"

	"github.com/kizuna-chat/kizuna-server/internal/models"
)

const (
	// MaxContextMessages bounds the recent-history window rendered into a
	// prompt; older turns are covered by the rolling summary instead.
	MaxContextMessages = 5
	// MaxTextLength bounds the subject text sent to the model, in runes.
	MaxTextLength = 500
	// SummaryThreshold is the context length at which a new rolling summary
	// is generated.
	SummaryThreshold = 10
)

// Message is one role-tagged entry of a prompt sequence.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// BuildCultureCheckMessages assembles the prompt for a culture check.
// Ordering is load-bearing: all framing (background, summary, history) must
// precede the subject text so the model treats it as context rather than as
// the analysis target. Callers must not pass empty text.
func BuildCultureCheckMessages(text string, context []models.ContextMessage, existingSummary string, lang models.DisplayLanguage, background string) []Message {
	messages := []Message{{Role: RoleSystem, Content: cultureCheckSystemPrompt(lang)}}

	if background != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: "## ユーザーが設定した会話の背景:\n" + background,
		})
	}

	if existingSummary != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: "## 会話の要約（これまでの文脈）:\n" + existingSummary,
		})
	}

	if len(context) > 0 {
		recent := recentWindow(context)
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: fmt.Sprintf("## 最近の会話履歴（参考用・最新%d件）:\n%s", len(recent), renderTranscript(recent)),
		})
	}

	messages = append(messages, Message{
		Role:    RoleUser,
		Content: fmt.Sprintf("## これから送信しようとしているメッセージ（このテキストに対して提案してください）:\n「%s」", Truncate(text, MaxTextLength)),
	})

	return messages
}

// BuildReceivedMessageMessages assembles the prompt for analyzing an inbound
// message. Received-message analysis does not participate in the rolling
// summary, so there is no summary input.
func BuildReceivedMessageMessages(text string, background string, history []models.ContextMessage, lang models.DisplayLanguage) []Message {
	messages := []Message{{Role: RoleSystem, Content: receivedMessageSystemPrompt(lang)}}

	if background != "" {
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: "## 会話の背景（ユーザーが設定）:\n" + background,
		})
	}

	if len(history) > 0 {
		recent := recentWindow(history)
		messages = append(messages, Message{
			Role:    RoleSystem,
			Content: "## 最近の会話履歴：\n" + renderTranscript(recent),
		})
	}

	messages = append(messages, Message{
		Role:    RoleUser,
		Content: fmt.Sprintf("## 分析する受信メッセージ：\n「%s」", Truncate(text, MaxTextLength)),
	})

	return messages
}

// buildSummaryMessages assembles the prompt for generating a rolling summary.
// The full supplied context is serialized, not just the recent window.
func buildSummaryMessages(context []models.ContextMessage, existingSummary string, lang models.DisplayLanguage) []Message {
	transcript := renderTranscript(context)

	var prompt string
	if existingSummary != "" {
		prompt = fmt.Sprintf("以前の会話の要約：\n%s\n\n新しい会話の内容：\n%s\n\n上記を踏まえて、全体の要約を更新してください。", existingSummary, transcript)
	} else {
		prompt = fmt.Sprintf("以下の会話を分析して要約してください：\n\n%s", transcript)
	}

	return []Message{
		{Role: RoleSystem, Content: summarySystemPrompt(lang)},
		{Role: RoleUser, Content: prompt},
	}
}

// recentWindow returns at most the MaxContextMessages most recent entries.
func recentWindow(context []models.ContextMessage) []models.ContextMessage {
	if len(context) <= MaxContextMessages {
		return context
	}
	return context[len(context)-MaxContextMessages:]
}

func renderTranscript(context []models.ContextMessage) string {
	lines := make([]string, len(context))
	for i, msg := range context {
		lines[i] = fmt.Sprintf("%s: %s", msg.Sender, msg.Text)
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to at most max runes. Byte slicing would split
// multi-byte Japanese characters.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
