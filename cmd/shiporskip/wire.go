package main

import (
	"context"
	"fmt"

	"github.com/roshanshetty271/ShipOrSkip/config"
	"github.com/roshanshetty271/ShipOrSkip/fetch"
	"github.com/roshanshetty271/ShipOrSkip/llm"
	"github.com/roshanshetty271/ShipOrSkip/log"
	"github.com/roshanshetty271/ShipOrSkip/research"
	"github.com/roshanshetty271/ShipOrSkip/store"
	"github.com/roshanshetty271/ShipOrSkip/store/memory"
	"github.com/roshanshetty271/ShipOrSkip/store/postgres"
	"github.com/roshanshetty271/ShipOrSkip/store/redis"
	"github.com/roshanshetty271/ShipOrSkip/store/sqlite"
	"github.com/roshanshetty271/ShipOrSkip/tool"
	"github.com/tmc/langchaingo/llms/openai"
)

func pipelineOptions(cfg *config.Config) research.Options {
	return research.Options{
		PlannerModel:      cfg.PlannerModel,
		ExtractorModel:    cfg.ExtractorModel,
		StrategistModel:   cfg.StrategistModel,
		PlannerTimeout:    cfg.PlannerTimeout,
		ExtractorTimeout:  cfg.ExtractorTimeout,
		StrategistTimeout: cfg.StrategistTimeout,
		EnableExtractor:   cfg.EnableExtractor,
		ContextChars:      cfg.ContextChars,
		MaxSources:        cfg.MaxSources,
	}
}

// buildDependencies wires only the collaborators whose credentials are set;
// the pipeline reports the others as not configured.
func buildDependencies(cfg *config.Config, logger log.Logger) (research.Dependencies, error) {
	deps := research.Dependencies{Logger: logger}

	if cfg.TavilyAPIKey != "" {
		tavily, err := tool.NewTavilySearch(cfg.TavilyAPIKey, tool.WithTavilyTimeout(cfg.SearchTimeout))
		if err != nil {
			return deps, err
		}
		deps.Web = tavily
	}

	// Raw README downloads work without a token.
	gh := tool.NewGitHub(cfg.GitHubToken, tool.WithGitHubTimeout(cfg.GitHubTimeout))
	if cfg.GitHubToken != "" {
		deps.Repos = gh
	}
	deps.Readmes = fetch.NewReadmeFetcher(gh, fetch.ReadmeOptions{
		Timeout: cfg.ReadmeTimeout,
		Logger:  log.Prefixed(logger, "[Readme]"),
	})
	deps.Pages = fetch.NewPageFetcher(fetch.PageOptions{
		MaxPages:    cfg.DeepFetchPages,
		Target:      cfg.RaceTarget,
		Concurrency: cfg.FetchConcurrency,
		Timeout:     cfg.PageTimeout,
		Logger:      log.Prefixed(logger, "[Fetcher]"),
	})

	model, err := buildModel(cfg)
	if err != nil {
		return deps, err
	}
	if model != nil {
		deps.Model = model
	}
	return deps, nil
}

func buildModel(cfg *config.Config) (llm.Model, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, nil
	}

	switch cfg.LLMBackend {
	case config.BackendLangChain:
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.StrategistModel),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("langchaingo openai: %w", err)
		}
		return llm.NewLangChain(model), nil
	case config.BackendOpenAI, "":
		var opts []llm.OpenAIOption
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, llm.WithOpenAIBaseURL(cfg.OpenAIBaseURL))
		}
		model, err := llm.NewOpenAI(cfg.OpenAIAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return model, nil
	}
	return nil, fmt.Errorf("unknown LLM_BACKEND %q", cfg.LLMBackend)
}

// openStore opens the configured checkpoint store. A nil store means
// checkpoints are disabled.
func openStore(ctx context.Context, cfg *config.Config) (store.CheckpointStore, func(), error) {
	noop := func() {}

	switch cfg.CheckpointStore {
	case config.StoreNone, "":
		return nil, noop, nil
	case config.StoreMemory:
		return memory.NewMemoryCheckpointStore(), noop, nil
	case config.StoreRedis:
		s := redis.NewRedisCheckpointStore(redis.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			TTL:      cfg.CheckpointTTL,
		})
		return s, func() { _ = s.Close() }, nil
	case config.StoreSQLite:
		s, err := sqlite.NewSqliteCheckpointStore(sqlite.SqliteOptions{Path: cfg.SQLitePath})
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("DATABASE_URL is required for the postgres checkpoint store")
		}
		s, err := postgres.NewPostgresCheckpointStore(ctx, postgres.PostgresOptions{ConnString: cfg.DatabaseURL})
		if err != nil {
			return nil, noop, err
		}
		if err := s.InitSchema(ctx); err != nil {
			s.Close()
			return nil, noop, err
		}
		return s, s.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown CHECKPOINT_STORE %q", cfg.CheckpointStore)
}
