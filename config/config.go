// Package config loads the service configuration from a YAML file,
// merges environment overrides, and applies defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage struct {
		Path        string   `yaml:"path"`
		Collections []string `yaml:"collections"`
	} `yaml:"storage"`

	Processor struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"processor"`

	Retrieval struct {
		DocumentLimit int `yaml:"document_limit"`
		MemoryLimit   int `yaml:"memory_limit"`
	} `yaml:"retrieval"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Ingest struct {
		// DrivePath, when set, is ingested in the background at startup.
		DrivePath  string `yaml:"drive_path"`
		Collection string `yaml:"collection"`
	} `yaml:"ingest"`

	Embedder struct {
		// ModelPath and TokenizerPath locate the local ONNX embedding
		// model. Used only by builds with the "onnx" tag.
		ModelPath     string `yaml:"model_path"`
		TokenizerPath string `yaml:"tokenizer_path"`
	} `yaml:"embedder"`

	Responder struct {
		// Provider selects the response assembler: "template" (default,
		// deterministic) or "claude".
		Provider  string `yaml:"provider"`
		Model     string `yaml:"model"`
		MaxTokens int64  `yaml:"max_tokens"`
	} `yaml:"responder"`

	Agents []AgentProfile `yaml:"agents"`
}

// AgentProfile is an extra roster entry declared in configuration.
type AgentProfile struct {
	Name        string   `yaml:"name"`
	Role        string   `yaml:"role"`
	Personality string   `yaml:"personality"`
	Specialties []string `yaml:"specialties"`
}

// Load reads configuration from path. An empty path falls back to
// default locations, then to pure defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		locations := []string{
			"ltm.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/ltm-bridge/ltm.yaml"),
			"/etc/ltm-bridge/ltm.yaml",
		}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	config := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	mergeWithEnv(config)
	applyDefaults(config)

	if err := validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Storage.Path == "" {
		config.Storage.Path = "./ltm_db"
	}
	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 512
	}
	if config.Processor.ChunkOverlap == 0 {
		config.Processor.ChunkOverlap = 50
	}
	if config.Retrieval.DocumentLimit == 0 {
		config.Retrieval.DocumentLimit = 3
	}
	if config.Retrieval.MemoryLimit == 0 {
		config.Retrieval.MemoryLimit = 3
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Ingest.Collection == "" {
		config.Ingest.Collection = "documents"
	}
	if config.Responder.Provider == "" {
		config.Responder.Provider = "template"
	}
	if config.Responder.Model == "" {
		config.Responder.Model = "claude-sonnet-4-5"
	}
}

func mergeWithEnv(config *Config) {
	if path := os.Getenv("LTM_STORAGE_PATH"); path != "" {
		config.Storage.Path = path
	}
	if drive := os.Getenv("LTM_DRIVE_PATH"); drive != "" {
		config.Ingest.DrivePath = drive
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
}

func validate(config *Config) error {
	if config.Processor.ChunkOverlap < 0 || config.Processor.ChunkOverlap >= config.Processor.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d",
			config.Processor.ChunkOverlap, config.Processor.ChunkSize)
	}
	if config.Retrieval.DocumentLimit < 1 || config.Retrieval.MemoryLimit < 1 {
		return fmt.Errorf("retrieval limits must be positive")
	}
	switch config.Responder.Provider {
	case "template", "claude":
	default:
		return fmt.Errorf("unknown responder provider %q", config.Responder.Provider)
	}
	return nil
}
