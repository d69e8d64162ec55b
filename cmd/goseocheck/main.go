package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goseocheck/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath    string
		guidelinePath string
		articlePath   string
		outputPath    string
		reportPath    string
		pdfPath       string
		level         string
		fast          bool
		storePath     string
		saveGuideline string
		guidelineID   string
		listStore     bool
		deleteID      string
		doRevise      bool
		llmBaseURL    string
		llmModel      string
		llmKey        string
		maxIterations int
		targetScore   float64
		cacheDir      string
		cacheMaxAge   time.Duration
		cacheClear    bool
		cacheStrict   bool
		verbose       bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("GOSEOCHECK_CONFIG"), "Path to YAML/JSON config file")
	flag.StringVar(&guidelinePath, "guideline", "", "Path to guideline file (text format, or .yaml/.json record)")
	flag.StringVar(&articlePath, "article", "", "Path to the article to validate (markdown or HTML)")
	flag.StringVar(&outputPath, "output", "", "Path to write the JSON result")
	flag.StringVar(&reportPath, "report", "", "Path to write the human-readable text report")
	flag.StringVar(&pdfPath, "output.pdf", "", "Path to write a PDF rendering of the report")
	flag.StringVar(&level, "level", "upper", "Aggressiveness level: conservative|moderate|upper|aggressive")
	flag.BoolVar(&fast, "fast", false, "Use the precomputed fast path instead of full analysis")
	flag.StringVar(&storePath, "store", os.Getenv("GOSEOCHECK_STORE"), "Path to the sqlite guideline store")
	flag.StringVar(&saveGuideline, "save-guideline", "", "Persist the guideline in the store under this name")
	flag.StringVar(&guidelineID, "guideline-id", "", "Load a stored guideline by id or name instead of a file")
	flag.BoolVar(&listStore, "list", false, "List stored guidelines and exit")
	flag.StringVar(&deleteID, "delete", "", "Delete a stored guideline by id and exit")
	flag.BoolVar(&doRevise, "revise", false, "Run the LLM revision loop before validating")
	flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name")
	flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for OpenAI-compatible server")
	flag.IntVar(&maxIterations, "max.iterations", 0, "Maximum revision iterations (0 uses the default)")
	flag.Float64Var(&targetScore, "target.score", 0, "Stop revising once the fast score reaches this (0 uses the default)")
	flag.StringVar(&cacheDir, "cache.dir", ".goseocheck-cache", "Cache directory for LLM responses")
	flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
	flag.BoolVar(&cacheClear, "cache.clear", false, "Clear cache directory before run")
	flag.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		GuidelinePath:    guidelinePath,
		ArticlePath:      articlePath,
		OutputPath:       outputPath,
		ReportPath:       reportPath,
		PDFPath:          pdfPath,
		Level:            level,
		Fast:             fast,
		StorePath:        storePath,
		SaveGuideline:    saveGuideline,
		GuidelineID:      guidelineID,
		ListStore:        listStore,
		DeleteID:         deleteID,
		Revise:           doRevise,
		LLMBaseURL:       llmBaseURL,
		LLMModel:         llmModel,
		LLMAPIKey:        llmKey,
		MaxIterations:    maxIterations,
		TargetScore:      targetScore,
		CacheDir:         cacheDir,
		CacheMaxAge:      cacheMaxAge,
		CacheClear:       cacheClear,
		CacheStrictPerms: cacheStrict,
		Verbose:          verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("config", configPath).Msg("load config file")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		// Exit code policy: 1 when the article fails validation, 2 for
		// operational errors.
		if errors.Is(err, app.ErrValidationFailed) {
			log.Warn().Msg("content failed validation")
			os.Exit(1)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(2)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
