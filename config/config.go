// Package config loads application settings from an optional mindspire.yaml
// and MINDSPIRE_* environment variables, with sane defaults for everything.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/nathoo/mindspire/types"
)

// ErrUnknownDifficulty is returned when the configured difficulty name has
// no preset.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Config holds application configuration.
type Config struct {
	ContentDir      string   `mapstructure:"content_dir"`      // directory holding the .lua content files
	SaveDir         string   `mapstructure:"save_dir"`         // directory for save slots
	LogFile         string   `mapstructure:"log_file"`         // debug log path, empty disables logging
	Difficulty      string   `mapstructure:"difficulty"`       // preset name: easy, normal, hard
	QuestCategories []string `mapstructure:"quest_categories"` // NPC categories counted toward the quest
}

// presets are the built-in difficulty tables. The quest category list is
// filled in from the config after lookup.
var presets = map[string]types.Difficulty{
	"easy": {
		StartCoherence: 30, MaxCoherence: 40,
		CorrectGain: 6, WrongPenalty: 3, EnemyWrongPenalty: 6,
		QuestionsMin: 1, QuestionsMax: 2, BossQuestions: 2,
		HelperRestore: 15, QuestBonus: 30,
	},
	"normal": {
		StartCoherence: 20, MaxCoherence: 30,
		CorrectGain: 5, WrongPenalty: 5, EnemyWrongPenalty: 10,
		QuestionsMin: 2, QuestionsMax: 3, BossQuestions: 3,
		HelperRestore: 10, QuestBonus: 25,
	},
	"hard": {
		StartCoherence: 15, MaxCoherence: 20,
		CorrectGain: 3, WrongPenalty: 7, EnemyWrongPenalty: 14,
		QuestionsMin: 3, QuestionsMax: 4, BossQuestions: 4,
		HelperRestore: 5, QuestBonus: 20,
	},
}

// DifficultyNames returns the known preset names, sorted.
func DifficultyNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tuning resolves the configured preset into a difficulty table.
func (c *Config) Tuning() (types.Difficulty, error) {
	d, ok := presets[c.Difficulty]
	if !ok {
		return types.Difficulty{}, fmt.Errorf("%w %q (have: %s)",
			ErrUnknownDifficulty, c.Difficulty, strings.Join(DifficultyNames(), ", "))
	}
	for _, cat := range c.QuestCategories {
		d.QuestCategories = append(d.QuestCategories, types.Category(cat))
	}
	return d, nil
}

// Load reads configuration. dir is an extra config search path, usually the
// content directory; the working directory is always searched. A missing
// config file is not an error — defaults and environment apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("mindspire")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir != "" {
		v.AddConfigPath(dir)
	}

	v.SetDefault("content_dir", "content")
	// Empty means the per-user default (~/.mindspire/saves).
	v.SetDefault("save_dir", "")
	v.SetDefault("log_file", "")
	v.SetDefault("difficulty", "normal")
	v.SetDefault("quest_categories", []string{string(types.CategorySpecialist)})

	v.SetEnvPrefix("mindspire")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if _, err := cfg.Tuning(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
