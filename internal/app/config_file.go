package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to flags and env vars.
type FileConfig struct {
	Guideline string `yaml:"guideline" json:"guideline"`
	Article   string `yaml:"article" json:"article"`
	Output    string `yaml:"output" json:"output"`
	Report    string `yaml:"report" json:"report"`
	PDF       string `yaml:"pdf" json:"pdf"`

	Level string `yaml:"level" json:"level"`
	Fast  bool   `yaml:"fast" json:"fast"`

	Store struct {
		Path string `yaml:"path" json:"path"`
	} `yaml:"store" json:"store"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Revise struct {
		Enable        bool    `yaml:"enable" json:"enable"`
		MaxIterations int     `yaml:"maxIterations" json:"maxIterations"`
		TargetScore   float64 `yaml:"targetScore" json:"targetScore"`
	} `yaml:"revise" json:"revise"`

	Cache struct {
		Dir         string        `yaml:"dir" json:"dir"`
		MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear       bool          `yaml:"clear" json:"clear"`
		StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// still at their flag defaults, so the file supplies defaults while explicit
// flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		levelDefault    = "upper"
		cacheDirDefault = ".goseocheck-cache"
	)

	if cfg.GuidelinePath == "" && fc.Guideline != "" {
		cfg.GuidelinePath = fc.Guideline
	}
	if cfg.ArticlePath == "" && fc.Article != "" {
		cfg.ArticlePath = fc.Article
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.ReportPath == "" && fc.Report != "" {
		cfg.ReportPath = fc.Report
	}
	if cfg.PDFPath == "" && fc.PDF != "" {
		cfg.PDFPath = fc.PDF
	}
	if (cfg.Level == "" || cfg.Level == levelDefault) && fc.Level != "" {
		cfg.Level = fc.Level
	}
	if !cfg.Fast && fc.Fast {
		cfg.Fast = true
	}
	if cfg.StorePath == "" && fc.Store.Path != "" {
		cfg.StorePath = fc.Store.Path
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if !cfg.Revise && fc.Revise.Enable {
		cfg.Revise = true
	}
	if cfg.MaxIterations == 0 && fc.Revise.MaxIterations > 0 {
		cfg.MaxIterations = fc.Revise.MaxIterations
	}
	if cfg.TargetScore == 0 && fc.Revise.TargetScore > 0 {
		cfg.TargetScore = fc.Revise.TargetScore
	}
	if (cfg.CacheDir == "" || cfg.CacheDir == cacheDirDefault) && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if cfg.ListStore || cfg.DeleteID != "" {
		if strings.TrimSpace(cfg.StorePath) == "" {
			return errors.New("config: store path is required for store operations")
		}
		return nil
	}
	if strings.TrimSpace(cfg.GuidelinePath) == "" && strings.TrimSpace(cfg.GuidelineID) == "" {
		return errors.New("config: a guideline file or a stored guideline id is required")
	}
	if strings.TrimSpace(cfg.GuidelineID) != "" && strings.TrimSpace(cfg.StorePath) == "" {
		return errors.New("config: store path is required to load a guideline by id")
	}
	if cfg.Revise {
		if strings.TrimSpace(cfg.LLMModel) == "" {
			return errors.New("config: llm.model is required for -revise (or set LLM_MODEL)")
		}
		if strings.TrimSpace(cfg.ArticlePath) == "" {
			return errors.New("config: an article is required for -revise")
		}
	}
	if cfg.MaxIterations < 0 {
		return errors.New("config: negative iteration limits are not allowed")
	}
	return nil
}
