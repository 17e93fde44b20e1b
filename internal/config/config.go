// Package config loads the engine configuration: a TOML file naming the
// binary artifacts the engine converts with and the directory the user
// model persists to.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrIncomplete is the error returned when a configuration file is missing
// a required artifact path. The engine is unusable without its system
// dictionary and language models, so this fails construction.
var ErrIncomplete = errors.New("incomplete engine configuration")

// Config is the top-level engine configuration.
type Config struct {
	// UserDir is where the user language model lives (unigram.txt and
	// bigram.txt).
	UserDir string `toml:"user_dir"`

	// SKKDicts are SKK-format text dictionaries merged in as user
	// dictionaries, highest priority first.
	SKKDicts []string `toml:"skk_dicts"`

	// Romaji adds or overrides romaji → kana table entries.
	Romaji map[string]string `toml:"romaji"`

	System System `toml:"system"`
}

// System names the prebuilt binary artifacts.
type System struct {
	// Dict is the main binary dictionary image.
	Dict string `toml:"dict"`

	// SingleTermDicts are dictionaries (emoji, symbols, zip codes) whose
	// entries are only offered on a full-span match.
	SingleTermDicts []string `toml:"single_term_dicts"`

	// UnigramLM and BigramLM are the system language model images.
	UnigramLM string `toml:"unigram_lm"`
	BigramLM  string `toml:"bigram_lm"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load engine config %s: %w", path, err)
	}

	switch {
	case cfg.UserDir == "":
		return nil, fmt.Errorf("%w: user_dir is not set", ErrIncomplete)
	case cfg.System.Dict == "":
		return nil, fmt.Errorf("%w: system.dict is not set", ErrIncomplete)
	case cfg.System.UnigramLM == "":
		return nil, fmt.Errorf("%w: system.unigram_lm is not set", ErrIncomplete)
	case cfg.System.BigramLM == "":
		return nil, fmt.Errorf("%w: system.bigram_lm is not set", ErrIncomplete)
	}

	return &cfg, nil
}
