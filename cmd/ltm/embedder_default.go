//go:build !onnx

package main

import (
	"github.com/meneportal/ltm-bridge/config"
	"github.com/meneportal/ltm-bridge/embedder"
	"github.com/meneportal/ltm-bridge/embedder/mock"
)

// newEmbedder returns the hash-based embedder. Builds with the "onnx"
// tag replace it with the local all-MiniLM model.
func newEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	return mock.New(), nil
}
