package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kizuna-chat/kizuna-server/internal/config"
	"github.com/kizuna-chat/kizuna-server/internal/models"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Storage holds the state the analysis core deliberately does not own:
// per-chat background descriptions, the latest rolling summary per chat,
// per-user context templates and suggestion history. Key-value reads and
// writes only.
type Storage interface {
	// Background description operations
	GetBackground(ctx context.Context, chatID string) (*models.ChatBackground, error)
	SaveBackground(ctx context.Context, background *models.ChatBackground) error
	DeleteBackground(ctx context.Context, chatID string) error

	// Rolling summary operations
	GetSummary(ctx context.Context, chatID string) (*models.ConversationSummary, error)
	SaveSummary(ctx context.Context, chatID string, summary *models.ConversationSummary) error

	// Context template operations
	GetTemplates(ctx context.Context, userID string) ([]models.ContextTemplate, error)
	SaveTemplate(ctx context.Context, template *models.ContextTemplate) error
	DeleteTemplate(ctx context.Context, userID, templateID string) error

	// Suggestion history operations
	AppendHistory(ctx context.Context, entry *models.HistoryEntry) error
	GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error)
	DeleteHistory(ctx context.Context, userID, historyID string) error
}

// Manager selects and wraps the configured storage backend.
type Manager struct {
	storage     Storage
	logger      *logrus.Logger
	redisClient *redis.Client
}

// NewManager creates a new storage manager
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	manager := &Manager{logger: logger}

	switch cfg.Storage.Type {
	case "redis":
		redisStorage, err := NewRedisStorage(cfg, logger)
		if err != nil {
			return nil, err
		}
		manager.storage = redisStorage
		manager.redisClient = redisStorage.client
	case "memory":
		manager.storage = NewMemoryStorage(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}

	return manager, nil
}

func (m *Manager) GetBackground(ctx context.Context, chatID string) (*models.ChatBackground, error) {
	return m.storage.GetBackground(ctx, chatID)
}

func (m *Manager) SaveBackground(ctx context.Context, background *models.ChatBackground) error {
	return m.storage.SaveBackground(ctx, background)
}

func (m *Manager) DeleteBackground(ctx context.Context, chatID string) error {
	return m.storage.DeleteBackground(ctx, chatID)
}

func (m *Manager) GetSummary(ctx context.Context, chatID string) (*models.ConversationSummary, error) {
	return m.storage.GetSummary(ctx, chatID)
}

func (m *Manager) SaveSummary(ctx context.Context, chatID string, summary *models.ConversationSummary) error {
	return m.storage.SaveSummary(ctx, chatID, summary)
}

func (m *Manager) GetTemplates(ctx context.Context, userID string) ([]models.ContextTemplate, error) {
	return m.storage.GetTemplates(ctx, userID)
}

func (m *Manager) SaveTemplate(ctx context.Context, template *models.ContextTemplate) error {
	return m.storage.SaveTemplate(ctx, template)
}

func (m *Manager) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	return m.storage.DeleteTemplate(ctx, userID, templateID)
}

func (m *Manager) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	return m.storage.AppendHistory(ctx, entry)
}

func (m *Manager) GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	return m.storage.GetHistory(ctx, userID)
}

func (m *Manager) DeleteHistory(ctx context.Context, userID, historyID string) error {
	return m.storage.DeleteHistory(ctx, userID, historyID)
}

// GetRedisClient returns the Redis client if available
func (m *Manager) GetRedisClient() *redis.Client {
	return m.redisClient
}

const (
	backgroundTTL = 0 // backgrounds live until deleted
	summaryTTL    = 7 * 24 * time.Hour
	historyLimit  = 500 // entries kept per user
)

// RedisStorage implements storage using Redis
type RedisStorage struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisStorage(cfg *config.Config, logger *logrus.Logger) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.Redis.Addr,
		Password: cfg.Storage.Redis.Password,
		DB:       cfg.Storage.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStorage{client: client, logger: logger}, nil
}

func backgroundKey(chatID string) string { return fmt.Sprintf("background:%s", chatID) }
func summaryKey(chatID string) string    { return fmt.Sprintf("summary:%s", chatID) }
func templatesKey(userID string) string  { return fmt.Sprintf("templates:%s", userID) }
func historyKey(userID string) string    { return fmt.Sprintf("history:%s", userID) }

func (r *RedisStorage) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisStorage) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *RedisStorage) GetBackground(ctx context.Context, chatID string) (*models.ChatBackground, error) {
	var background models.ChatBackground
	found, err := r.getJSON(ctx, backgroundKey(chatID), &background)
	if err != nil || !found {
		return nil, err
	}
	return &background, nil
}

func (r *RedisStorage) SaveBackground(ctx context.Context, background *models.ChatBackground) error {
	return r.setJSON(ctx, backgroundKey(background.ChatID), background, backgroundTTL)
}

func (r *RedisStorage) DeleteBackground(ctx context.Context, chatID string) error {
	return r.client.Del(ctx, backgroundKey(chatID)).Err()
}

func (r *RedisStorage) GetSummary(ctx context.Context, chatID string) (*models.ConversationSummary, error) {
	var summary models.ConversationSummary
	found, err := r.getJSON(ctx, summaryKey(chatID), &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (r *RedisStorage) SaveSummary(ctx context.Context, chatID string, summary *models.ConversationSummary) error {
	return r.setJSON(ctx, summaryKey(chatID), summary, summaryTTL)
}

func (r *RedisStorage) GetTemplates(ctx context.Context, userID string) ([]models.ContextTemplate, error) {
	var templates []models.ContextTemplate
	if _, err := r.getJSON(ctx, templatesKey(userID), &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *RedisStorage) SaveTemplate(ctx context.Context, template *models.ContextTemplate) error {
	templates, err := r.GetTemplates(ctx, template.UserID)
	if err != nil {
		return err
	}
	templates = append([]models.ContextTemplate{*template}, templates...)
	return r.setJSON(ctx, templatesKey(template.UserID), templates, 0)
}

func (r *RedisStorage) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	templates, err := r.GetTemplates(ctx, userID)
	if err != nil {
		return err
	}
	filtered := templates[:0]
	for _, t := range templates {
		if t.TemplateID != templateID {
			filtered = append(filtered, t)
		}
	}
	return r.setJSON(ctx, templatesKey(userID), filtered, 0)
}

func (r *RedisStorage) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	entries, err := r.GetHistory(ctx, entry.UserID)
	if err != nil {
		return err
	}
	entries = append([]models.HistoryEntry{*entry}, entries...)
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	return r.setJSON(ctx, historyKey(entry.UserID), entries, 0)
}

func (r *RedisStorage) GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if _, err := r.getJSON(ctx, historyKey(userID), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *RedisStorage) DeleteHistory(ctx context.Context, userID, historyID string) error {
	entries, err := r.GetHistory(ctx, userID)
	if err != nil {
		return err
	}
	filtered := entries[:0]
	for _, e := range entries {
		if e.HistoryID != historyID {
			filtered = append(filtered, e)
		}
	}
	return r.setJSON(ctx, historyKey(userID), filtered, 0)
}

// MemoryStorage implements storage using in-memory cache
type MemoryStorage struct {
	backgrounds *cache.Cache
	summaries   *cache.Cache
	templates   *cache.Cache
	histories   *cache.Cache
	logger      *logrus.Logger
}

func NewMemoryStorage(cfg *config.Config, logger *logrus.Logger) *MemoryStorage {
	return &MemoryStorage{
		backgrounds: cache.New(cache.NoExpiration, cfg.Storage.Memory.CleanupInterval),
		summaries:   cache.New(summaryTTL, cfg.Storage.Memory.CleanupInterval),
		templates:   cache.New(cache.NoExpiration, cache.NoExpiration),
		histories:   cache.New(cache.NoExpiration, cache.NoExpiration),
		logger:      logger,
	}
}

func (m *MemoryStorage) GetBackground(ctx context.Context, chatID string) (*models.ChatBackground, error) {
	if val, found := m.backgrounds.Get(backgroundKey(chatID)); found {
		return val.(*models.ChatBackground), nil
	}
	return nil, nil
}

func (m *MemoryStorage) SaveBackground(ctx context.Context, background *models.ChatBackground) error {
	m.backgrounds.SetDefault(backgroundKey(background.ChatID), background)
	return nil
}

func (m *MemoryStorage) DeleteBackground(ctx context.Context, chatID string) error {
	m.backgrounds.Delete(backgroundKey(chatID))
	return nil
}

func (m *MemoryStorage) GetSummary(ctx context.Context, chatID string) (*models.ConversationSummary, error) {
	if val, found := m.summaries.Get(summaryKey(chatID)); found {
		return val.(*models.ConversationSummary), nil
	}
	return nil, nil
}

func (m *MemoryStorage) SaveSummary(ctx context.Context, chatID string, summary *models.ConversationSummary) error {
	m.summaries.SetDefault(summaryKey(chatID), summary)
	return nil
}

func (m *MemoryStorage) GetTemplates(ctx context.Context, userID string) ([]models.ContextTemplate, error) {
	if val, found := m.templates.Get(templatesKey(userID)); found {
		return val.([]models.ContextTemplate), nil
	}
	return nil, nil
}

func (m *MemoryStorage) SaveTemplate(ctx context.Context, template *models.ContextTemplate) error {
	templates, _ := m.GetTemplates(ctx, template.UserID)
	templates = append([]models.ContextTemplate{*template}, templates...)
	m.templates.Set(templatesKey(template.UserID), templates, cache.NoExpiration)
	return nil
}

func (m *MemoryStorage) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	templates, _ := m.GetTemplates(ctx, userID)
	filtered := make([]models.ContextTemplate, 0, len(templates))
	for _, t := range templates {
		if t.TemplateID != templateID {
			filtered = append(filtered, t)
		}
	}
	m.templates.Set(templatesKey(userID), filtered, cache.NoExpiration)
	return nil
}

func (m *MemoryStorage) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	entries, _ := m.GetHistory(ctx, entry.UserID)
	entries = append([]models.HistoryEntry{*entry}, entries...)
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	m.histories.Set(historyKey(entry.UserID), entries, cache.NoExpiration)
	return nil
}

func (m *MemoryStorage) GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	if val, found := m.histories.Get(historyKey(userID)); found {
		return val.([]models.HistoryEntry), nil
	}
	return nil, nil
}

func (m *MemoryStorage) DeleteHistory(ctx context.Context, userID, historyID string) error {
	entries, _ := m.GetHistory(ctx, userID)
	filtered := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.HistoryID != historyID {
			filtered = append(filtered, e)
		}
	}
	m.histories.Set(historyKey(userID), filtered, cache.NoExpiration)
	return nil
}
