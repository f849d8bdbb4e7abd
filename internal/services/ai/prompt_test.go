package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kizuna-chat/kizuna-server/internal/models"
)

func makeContext(n int) []models.ContextMessage {
	msgs := make([]models.ContextMessage, n)
	for i := range msgs {
		sender := models.SenderSelf
		if i%2 == 1 {
			sender = models.SenderOther
		}
		msgs[i] = models.ContextMessage{Sender: sender, Text: fmt.Sprintf("msg-%d", i)}
	}
	return msgs
}

func TestBuildCultureCheckMessages_Ordering(t *testing.T) {
	msgs := BuildCultureCheckMessages("よろしくお願いします", makeContext(3), "prior summary", models.LangVietnamese, "recipient is my manager")

	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(msgs))
	}
	for i := 0; i < 4; i++ {
		if msgs[i].Role != RoleSystem {
			t.Fatalf("msgs[%d].Role = %q, want system", i, msgs[i].Role)
		}
	}
	if msgs[4].Role != RoleUser {
		t.Fatalf("final role = %q, want user", msgs[4].Role)
	}
	if !strings.Contains(msgs[1].Content, "recipient is my manager") {
		t.Errorf("background message missing: %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[2].Content, "prior summary") {
		t.Errorf("summary message missing: %q", msgs[2].Content)
	}
	if !strings.Contains(msgs[3].Content, "msg-0") {
		t.Errorf("history message missing: %q", msgs[3].Content)
	}
	if !strings.Contains(msgs[4].Content, "よろしくお願いします") {
		t.Errorf("subject text missing: %q", msgs[4].Content)
	}
}

func TestBuildCultureCheckMessages_OmitsEmptySections(t *testing.T) {
	msgs := BuildCultureCheckMessages("テスト", nil, "", models.LangVietnamese, "")

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2 (system prompt + subject)", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[1].Role != RoleUser {
		t.Fatalf("unexpected roles: %q, %q", msgs[0].Role, msgs[1].Role)
	}
}

func TestBuildCultureCheckMessages_WindowCapped(t *testing.T) {
	msgs := BuildCultureCheckMessages("テスト", makeContext(12), "", models.LangJapanese, "")

	var history string
	for _, m := range msgs {
		if strings.Contains(m.Content, "会話履歴") {
			history = m.Content
		}
	}
	if history == "" {
		t.Fatal("history message not found")
	}
	// Only the 5 most recent entries survive.
	if strings.Contains(history, "msg-6") {
		t.Errorf("history includes entries older than the window: %q", history)
	}
	for i := 7; i < 12; i++ {
		if !strings.Contains(history, fmt.Sprintf("msg-%d", i)) {
			t.Errorf("history missing msg-%d: %q", i, history)
		}
	}
	if !strings.Contains(history, fmt.Sprintf("最新%d件", MaxContextMessages)) {
		t.Errorf("history label missing window count: %q", history)
	}
}

func TestBuildCultureCheckMessages_TranscriptFormat(t *testing.T) {
	history := []models.ContextMessage{
		{Sender: models.SenderSelf, Text: "おはよう"},
		{Sender: models.SenderOther, Text: "おはようございます"},
	}
	msgs := BuildCultureCheckMessages("テスト", history, "", models.LangVietnamese, "")

	want := "self: おはよう\nother: おはようございます"
	if !strings.Contains(msgs[1].Content, want) {
		t.Errorf("transcript = %q, want it to contain %q", msgs[1].Content, want)
	}
}

func TestBuildCultureCheckMessages_TruncatesSubject(t *testing.T) {
	long := strings.Repeat("あ", MaxTextLength+100)
	msgs := BuildCultureCheckMessages(long, nil, "", models.LangVietnamese, "")

	subject := msgs[len(msgs)-1].Content
	if strings.Contains(subject, strings.Repeat("あ", MaxTextLength+1)) {
		t.Error("subject text not truncated")
	}
	if !strings.Contains(subject, strings.Repeat("あ", MaxTextLength)) {
		t.Error("subject text truncated below the limit")
	}
}

func TestBuildReceivedMessageMessages(t *testing.T) {
	msgs := BuildReceivedMessageMessages("明日は難しいかもしれません", "business partner", makeContext(7), models.LangVietnamese)

	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[len(msgs)-1].Role != RoleUser {
		t.Fatalf("final role = %q, want user", msgs[len(msgs)-1].Role)
	}
	if !strings.Contains(msgs[len(msgs)-1].Content, "明日は難しいかもしれません") {
		t.Error("subject text missing from final message")
	}
	// Window cap applies to received-message history too.
	if strings.Contains(msgs[2].Content, "msg-1") {
		t.Errorf("history includes entries older than the window: %q", msgs[2].Content)
	}
}

func TestBuildSummaryMessages_FullTranscript(t *testing.T) {
	history := makeContext(12)
	msgs := buildSummaryMessages(history, "", models.LangVietnamese)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	// Summarization folds in the entire context, not the recent-5 window.
	for i := 0; i < 12; i++ {
		if !strings.Contains(msgs[1].Content, fmt.Sprintf("msg-%d", i)) {
			t.Errorf("transcript missing msg-%d", i)
		}
	}
}

func TestBuildSummaryMessages_MergesPriorSummary(t *testing.T) {
	msgs := buildSummaryMessages(makeContext(10), "previous summary text", models.LangJapanese)

	if !strings.Contains(msgs[1].Content, "previous summary text") {
		t.Errorf("prior summary missing: %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "更新してください") {
		t.Errorf("merge instruction missing: %q", msgs[1].Content)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"ascii truncated", "hello world", 5, "hello"},
		{"multibyte runes", "こんにちは世界", 5, "こんにちは"},
		{"empty", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
