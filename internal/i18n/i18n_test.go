package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kizuna-chat/kizuna-server/internal/config"
)

func writeMessages(t *testing.T) *config.I18nConfig {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"vi.json": `{"content_empty": "Nội dung trống.", "greeting": "Xin chào {{.Name}}"}`,
		"ja.json": `{"content_empty": "内容が空です。", "greeting": "こんにちは {{.Name}}"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	return &config.I18nConfig{
		DefaultLanguage: "vi",
		Languages:       []string{"vi", "jp"},
		Directory:       dir,
	}
}

func TestLocalizer_PerLanguage(t *testing.T) {
	l, err := NewLocalizer(writeMessages(t))
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}

	if got := l.Get("vi", "content_empty", nil); got != "Nội dung trống." {
		t.Errorf("vi = %q", got)
	}
	// "jp" is the application code for Japanese (file ja.json).
	if got := l.Get("jp", "content_empty", nil); got != "内容が空です。" {
		t.Errorf("jp = %q", got)
	}
}

func TestLocalizer_UnknownLanguageFallsBack(t *testing.T) {
	l, err := NewLocalizer(writeMessages(t))
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}

	if got := l.Get("en", "content_empty", nil); got != "Nội dung trống." {
		t.Errorf("fallback = %q, want Vietnamese default", got)
	}
}

func TestLocalizer_UnknownMessageReturnsID(t *testing.T) {
	l, err := NewLocalizer(writeMessages(t))
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}

	if got := l.Get("vi", "does_not_exist", nil); got != "does_not_exist" {
		t.Errorf("got %q, want the message id", got)
	}
}

func TestLocalizer_TemplateData(t *testing.T) {
	l, err := NewLocalizer(writeMessages(t))
	if err != nil {
		t.Fatalf("NewLocalizer: %v", err)
	}

	if got := l.Get("vi", "greeting", map[string]interface{}{"Name": "Linh"}); got != "Xin chào Linh" {
		t.Errorf("greeting = %q", got)
	}
}

func TestLocalizer_MissingFile(t *testing.T) {
	cfg := &config.I18nConfig{
		DefaultLanguage: "vi",
		Languages:       []string{"vi"},
		Directory:       t.TempDir(),
	}
	if _, err := NewLocalizer(cfg); err == nil {
		t.Fatal("expected error for missing message file")
	}
}
