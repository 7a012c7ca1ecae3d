package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/meneportal/ltm-bridge/agents"
	"github.com/meneportal/ltm-bridge/bridge"
	"github.com/meneportal/ltm-bridge/bridge/claude"
	"github.com/meneportal/ltm-bridge/config"
	"github.com/meneportal/ltm-bridge/embedder"
	"github.com/meneportal/ltm-bridge/memory"
	"github.com/meneportal/ltm-bridge/processor"
	"github.com/meneportal/ltm-bridge/store/chromem"
)

// buildBridge assembles the whole core from configuration: embedder
// (with cache), persistent store, memory manager, roster, responder.
func buildBridge(cfg *config.Config) (*bridge.Bridge, error) {
	emb, err := newEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize embedder: %w", err)
	}
	cached, err := embedder.NewCached(emb)
	if err != nil {
		return nil, err
	}

	proc, err := processor.NewWithConfig(processor.Config{
		ChunkSize:    cfg.Processor.ChunkSize,
		ChunkOverlap: cfg.Processor.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	st, err := chromem.New(chromem.Config{
		Path:        cfg.Storage.Path,
		Collections: cfg.Storage.Collections,
		Embedder:    cached,
		Processor:   proc,
	})
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	roster := buildRoster(cfg)
	mgr := memory.NewManager(st)

	opts := []bridge.Option{
		bridge.WithLimits(cfg.Retrieval.DocumentLimit, cfg.Retrieval.MemoryLimit),
	}
	if cfg.Responder.Provider == "claude" {
		client := anthropic.NewClient() // reads ANTHROPIC_API_KEY
		opts = append(opts, bridge.WithResponder(claude.New(&client, claude.Config{
			Model:     cfg.Responder.Model,
			MaxTokens: cfg.Responder.MaxTokens,
		})))
	}

	return bridge.New(st, mgr, roster, opts...), nil
}

// buildRoster merges configured profiles over the built-in defaults.
func buildRoster(cfg *config.Config) *agents.Roster {
	profiles := agents.DefaultRoster().List()
	for _, a := range cfg.Agents {
		profiles = append(profiles, agents.Profile{
			Name:        a.Name,
			Role:        a.Role,
			Personality: a.Personality,
			Specialties: a.Specialties,
		})
	}
	return agents.NewRoster(profiles...)
}
