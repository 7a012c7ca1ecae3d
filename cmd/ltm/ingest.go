package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/meneportal/ltm-bridge/config"
	"github.com/meneportal/ltm-bridge/processor"
	"github.com/meneportal/ltm-bridge/store"
)

func newIngestCmd() *cobra.Command {
	var collection string

	cmd := &cobra.Command{
		Use:   "ingest <path>",
		Short: "Ingest a file or directory tree into a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			b, err := buildBridge(cfg)
			if err != nil {
				return err
			}

			root := args[0]
			info, err := os.Stat(root)
			if err != nil {
				return err
			}

			var files []string
			if info.IsDir() {
				err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
					if err != nil {
						return err
					}
					if !d.IsDir() && supportedExt(path) {
						files = append(files, path)
					}
					return nil
				})
				if err != nil {
					return err
				}
			} else {
				files = []string{root}
			}
			if len(files) == 0 {
				color.Yellow("No ingestible files under %s", root)
				return nil
			}

			bar := progressbar.Default(int64(len(files)), "ingesting")
			var chunks, skipped, failed int
			for _, path := range files {
				added, err := b.AddDocument(cmd.Context(), path, collection)
				switch {
				case errors.Is(err, store.ErrEmptyContent):
					skipped++
				case err != nil:
					failed++
					color.Red("  %s: %v", path, err)
				default:
					chunks += added
				}
				bar.Add(1)
			}

			color.Green("Ingested %d files into %q: %d chunks (%d skipped, %d failed)",
				len(files)-skipped-failed, collection, chunks, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%d files failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "documents", "target collection")
	return cmd
}

func supportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range processor.DefaultExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
