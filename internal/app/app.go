// Package app wires the dataset, the engines and the optional history
// backends from a loaded config.
package app

import (
	"clima/internal/analysis"
	"clima/internal/assistant"
	"clima/internal/config"
	"clima/internal/database"
	"clima/internal/datastore"
	"clima/internal/journal"
	"clima/internal/llm"
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// App holds the collaborators built from the config
type App struct {
	Service *assistant.Service
	Store   *datastore.Store
	Cache   *datastore.Cache // nil unless data.cache is set
	DB      *database.DB     // nil unless a history database is configured

	redis *redis.Client
}

// New builds an App. mode overrides assistant.mode when non-empty. The
// dataset is acquired first when no partition exists yet.
func New(ctx context.Context, cfg *config.Config, mode string) (*App, error) {
	a := &App{Store: datastore.NewStore(cfg.Data)}

	if err := a.Store.EnsureDataset(ctx, cfg.Data.DownloadCommand); err != nil {
		return nil, err
	}

	var loader datastore.Loader = a.Store
	if cfg.Data.Cache {
		a.Cache = datastore.NewCache(a.Store)
		loader = a.Cache
	}

	engine := assistant.NewEngine(analysis.NewAnalyzer(loader, cfg.Assistant.ColdThreshold))

	if mode == "" {
		mode = cfg.Assistant.Mode
	}
	if mode != assistant.ModeRules && mode != assistant.ModeLLM {
		return nil, fmt.Errorf("%w: %q", assistant.ErrUnknownMode, mode)
	}

	var asker assistant.Asker
	if client := newLLMClient(cfg); client != nil {
		asker = client
	} else if mode == assistant.ModeLLM {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", assistant.ErrLLMUnavailable)
	}
	a.Service = assistant.NewService(engine, asker, mode)

	if config.HistoryEnabled() {
		db, err := database.NewDB(config.GetDatabaseDSN())
		if err != nil {
			log.Printf("Warning: history database unavailable: %v", err)
		} else {
			a.DB = db
		}
	}

	switch {
	case cfg.Journal.Enabled:
		redisCfg := config.GetRedisConfig()
		a.redis = journal.NewClient(redisCfg)
		a.Service.WithPublisher(journal.NewPublisher(a.redis, redisCfg))
		log.Printf("Journaling questions to Redis stream %s", redisCfg.Stream)
	case a.DB != nil:
		a.Service.WithPublisher(a.DB)
	}

	return a, nil
}

// newLLMClient returns nil when no API key is configured
func newLLMClient(cfg *config.Config) *llm.Client {
	creds := config.GetLLMCredentials()
	if creds.APIKey == "" {
		return nil
	}
	baseURL := cfg.LLM.BaseURL
	if creds.BaseURL != "" {
		baseURL = creds.BaseURL
	}
	return llm.NewClient(llm.Options{
		BaseURL:      baseURL,
		APIKey:       creds.APIKey,
		Model:        cfg.LLM.Model,
		MaxTokens:    cfg.LLM.MaxTokens,
		SystemPrompt: cfg.LLM.SystemPrompt,
	})
}

// Close releases the backends
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("Failed to close Redis client: %v", err)
		}
	}
}
