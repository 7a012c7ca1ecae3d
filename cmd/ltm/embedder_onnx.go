//go:build onnx

package main

import (
	"github.com/meneportal/ltm-bridge/config"
	"github.com/meneportal/ltm-bridge/embedder"
	"github.com/meneportal/ltm-bridge/embedder/onnx"
)

// newEmbedder returns the ONNX embedder configured with the local
// all-MiniLM-L6-v2 model files.
func newEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	return onnx.New(onnx.Config{
		ModelPath:     cfg.Embedder.ModelPath,
		TokenizerPath: cfg.Embedder.TokenizerPath,
	})
}
