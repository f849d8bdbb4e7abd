package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/sirupsen/logrus"
)

func newMemoryStorage(t *testing.T) *MemoryStorage {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		Storage: config.StorageConfig{
			Type: "memory",
			Memory: config.MemoryConfig{
				DefaultExpiration: time.Hour,
				CleanupInterval:   time.Minute,
			},
		},
	}
	return NewMemoryStorage(cfg, logger)
}

func TestBackgroundRoundTrip(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	if got, err := s.GetBackground(ctx, "chat-1"); err != nil || got != nil {
		t.Fatalf("GetBackground on empty store = %v, %v", got, err)
	}

	background := &models.ChatBackground{
		ChatID:      "chat-1",
		Description: "recipient is my manager",
		UpdatedAt:   time.Now(),
	}
	if err := s.SaveBackground(ctx, background); err != nil {
		t.Fatalf("SaveBackground: %v", err)
	}

	got, err := s.GetBackground(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetBackground: %v", err)
	}
	if got.Description != "recipient is my manager" {
		t.Errorf("Description = %q", got.Description)
	}

	if err := s.DeleteBackground(ctx, "chat-1"); err != nil {
		t.Fatalf("DeleteBackground: %v", err)
	}
	if got, _ := s.GetBackground(ctx, "chat-1"); got != nil {
		t.Error("background survived deletion")
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	summary := &models.ConversationSummary{
		Summary:      "colleagues planning a meeting",
		MessageCount: 12,
		LastUpdated:  time.Now(),
	}
	if err := s.SaveSummary(ctx, "chat-1", summary); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	got, err := s.GetSummary(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if got.MessageCount != 12 {
		t.Errorf("MessageCount = %d", got.MessageCount)
	}

	// A regenerated summary replaces the previous one.
	if err := s.SaveSummary(ctx, "chat-1", &models.ConversationSummary{Summary: "updated", MessageCount: 20}); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}
	got, _ = s.GetSummary(ctx, "chat-1")
	if got.MessageCount != 20 || got.Summary != "updated" {
		t.Errorf("summary not replaced: %+v", got)
	}
}

func TestTemplates(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2"} {
		if err := s.SaveTemplate(ctx, &models.ContextTemplate{
			TemplateID: id, UserID: "user-1", Name: id,
		}); err != nil {
			t.Fatalf("SaveTemplate: %v", err)
		}
	}

	templates, err := s.GetTemplates(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("got %d templates, want 2", len(templates))
	}
	// Newest first
	if templates[0].TemplateID != "t2" {
		t.Errorf("templates[0].TemplateID = %q", templates[0].TemplateID)
	}

	if err := s.DeleteTemplate(ctx, "user-1", "t1"); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
	templates, _ = s.GetTemplates(ctx, "user-1")
	if len(templates) != 1 || templates[0].TemplateID != "t2" {
		t.Errorf("templates after delete = %+v", templates)
	}
}

func TestHistory(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	for _, id := range []string{"h1", "h2", "h3"} {
		if err := s.AppendHistory(ctx, &models.HistoryEntry{
			HistoryID: id, UserID: "user-1", OriginalText: "text-" + id,
		}); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}

	entries, err := s.GetHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].HistoryID != "h3" {
		t.Errorf("entries[0].HistoryID = %q, want newest first", entries[0].HistoryID)
	}

	if err := s.DeleteHistory(ctx, "user-1", "h2"); err != nil {
		t.Fatalf("DeleteHistory: %v", err)
	}
	entries, _ = s.GetHistory(ctx, "user-1")
	if len(entries) != 2 {
		t.Errorf("got %d entries after delete, want 2", len(entries))
	}
	for _, e := range entries {
		if e.HistoryID == "h2" {
			t.Error("deleted entry still present")
		}
	}
}

func TestHistoryIsolatedPerUser(t *testing.T) {
	s := newMemoryStorage(t)
	ctx := context.Background()

	s.AppendHistory(ctx, &models.HistoryEntry{HistoryID: "a", UserID: "user-1"})
	s.AppendHistory(ctx, &models.HistoryEntry{HistoryID: "b", UserID: "user-2"})

	entries, _ := s.GetHistory(ctx, "user-1")
	if len(entries) != 1 || entries[0].HistoryID != "a" {
		t.Errorf("user-1 history = %+v", entries)
	}
}

func TestManagerRejectsUnknownBackend(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{Storage: config.StorageConfig{Type: "dynamodb"}}
	if _, err := NewManager(cfg, logger); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}
