package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/meneportal/ltm-bridge/config"
	"github.com/meneportal/ltm-bridge/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the memory bridge HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			b, err := buildBridge(cfg)
			if err != nil {
				return err
			}

			// Drive ingestion runs in the background; the service is
			// ready before it finishes and survives its failure.
			if cfg.Ingest.DrivePath != "" {
				ingestCtx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				go func() {
					log.Printf("[INGEST] Background ingestion of %s starting", cfg.Ingest.DrivePath)
					if _, err := b.IngestTree(ingestCtx, cfg.Ingest.DrivePath, cfg.Ingest.Collection); err != nil {
						log.Printf("[INGEST] Background ingestion aborted: %v", err)
					}
				}()
			}

			return server.New(b).ListenAndServe(cfg.Server.Port)
		},
	}
}
