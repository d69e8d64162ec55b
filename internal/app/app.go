package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goseocheck/internal/cache"
	"github.com/hyperifyio/goseocheck/internal/fastvalidate"
	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/llm"
	"github.com/hyperifyio/goseocheck/internal/precompute"
	"github.com/hyperifyio/goseocheck/internal/report"
	"github.com/hyperifyio/goseocheck/internal/revise"
	"github.com/hyperifyio/goseocheck/internal/store"
)

// ErrValidationFailed is returned when the article does not meet the
// guideline. Per the exit code policy this maps to a distinct nonzero exit.
var ErrValidationFailed = errors.New("content failed validation")

type App struct {
	cfg Config
	db  *store.Store
}

func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg}

	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			_ = cache.ClearDir(cfg.CacheDir)
		}
		if cfg.CacheMaxAge > 0 {
			// Purge by age; ignore errors to avoid failing startup.
			_, _ = cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		}
	}

	if cfg.StorePath != "" {
		db, err := store.Open(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open guideline store: %w", err)
		}
		a.db = db
	}
	return a, nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) Run(ctx context.Context) error {
	if a.cfg.ListStore {
		return a.listGuidelines()
	}
	if a.cfg.DeleteID != "" {
		if err := a.db.Delete(a.cfg.DeleteID); err != nil {
			return err
		}
		log.Info().Str("id", a.cfg.DeleteID).Msg("deleted stored guideline")
		return nil
	}

	req, pre, err := a.loadGuideline()
	if err != nil {
		return err
	}

	if a.cfg.SaveGuideline != "" {
		if a.db == nil {
			return errors.New("store path is required to save a guideline")
		}
		id, err := a.db.Save(a.cfg.SaveGuideline, req)
		if err != nil {
			return fmt.Errorf("save guideline: %w", err)
		}
		log.Info().Str("id", id).Str("name", a.cfg.SaveGuideline).Msg("stored guideline")
	}

	// Guideline-only run: emit the precomputed record and stop.
	if a.cfg.ArticlePath == "" {
		if a.cfg.OutputPath != "" {
			data, err := pre.Encode()
			if err != nil {
				return err
			}
			if err := os.WriteFile(a.cfg.OutputPath, data, 0o644); err != nil {
				return fmt.Errorf("write precomputed record: %w", err)
			}
			log.Info().Str("out", a.cfg.OutputPath).Msg("wrote precomputed guideline")
		}
		return nil
	}

	articleBytes, err := os.ReadFile(a.cfg.ArticlePath)
	if err != nil {
		return fmt.Errorf("read article: %w", err)
	}
	article := string(articleBytes)

	level, err := precompute.ParseLevel(a.cfg.Level)
	if err != nil {
		return err
	}

	fv := fastvalidate.New(pre, level)

	if a.cfg.Revise {
		article, err = a.reviseDraft(ctx, fv, article)
		if err != nil {
			return err
		}
	}

	if a.cfg.Fast {
		return a.runFast(fv, article)
	}
	return a.runFull(req, level, article)
}

func (a *App) runFast(fv *fastvalidate.Validator, article string) error {
	res := fv.Validate(article)
	log.Info().
		Float64("score", res.Score).
		Int("atTarget", res.AtTarget).
		Int("withinRange", res.WithinRange).
		Int("total", res.TotalKeywords).
		Bool("structureValid", res.StructureValid).
		Msg(res.Summary)

	if a.cfg.OutputPath != "" {
		if err := writeJSON(a.cfg.OutputPath, res); err != nil {
			return err
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote fast validation result")
	}
	if !res.StructureValid || hasCritical(res) {
		return ErrValidationFailed
	}
	return nil
}

func hasCritical(res *fastvalidate.Result) bool {
	for _, fb := range res.Keywords {
		if fb.Severity == fastvalidate.Critical {
			return true
		}
	}
	return false
}

func (a *App) runFull(req guideline.Requirements, level precompute.Level, article string) error {
	analyzer, err := report.NewAnalyzer(req, level)
	if err != nil {
		return err
	}
	rep := analyzer.Analyze(article)
	log.Info().
		Float64("qualityScore", rep.QualityScore).
		Stringer("status", rep.Status).
		Float64("passRate", rep.PassRate).
		Int("actions", len(rep.Plan.Actions)).
		Int("estimatedMinutes", rep.EstimatedMinutes).
		Msg("analysis complete")

	if a.cfg.OutputPath != "" {
		if err := writeJSON(a.cfg.OutputPath, rep); err != nil {
			return err
		}
		log.Info().Str("out", a.cfg.OutputPath).Msg("wrote report JSON")
	}
	if a.cfg.ReportPath != "" {
		if err := os.WriteFile(a.cfg.ReportPath, []byte(renderText(rep)), 0o644); err != nil {
			return fmt.Errorf("write text report: %w", err)
		}
		log.Info().Str("out", a.cfg.ReportPath).Msg("wrote text report")
	}
	if a.cfg.PDFPath != "" {
		if err := writeReportPDF(rep, a.cfg.PDFPath); err != nil {
			return fmt.Errorf("write pdf report: %w", err)
		}
		log.Info().Str("out", a.cfg.PDFPath).Msg("wrote PDF report")
	}
	if !rep.Passed() {
		return ErrValidationFailed
	}
	return nil
}

func (a *App) reviseDraft(ctx context.Context, fv *fastvalidate.Validator, article string) (string, error) {
	transportCfg := openai.DefaultConfig(a.cfg.LLMAPIKey)
	if a.cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = a.cfg.LLMBaseURL
	}
	client := openai.NewClientWithConfig(transportCfg)

	r := &revise.Reviser{
		Client:        &llm.OpenAIProvider{Inner: client},
		Model:         a.cfg.LLMModel,
		MaxIterations: a.cfg.MaxIterations,
		TargetScore:   a.cfg.TargetScore,
		Log:           log.Logger,
	}
	if a.cfg.CacheDir != "" {
		r.Cache = &cache.PromptCache{Dir: a.cfg.CacheDir, StrictPerms: a.cfg.CacheStrictPerms}
	}

	out, err := r.Run(ctx, fv, article)
	if err != nil {
		return "", fmt.Errorf("revise: %w", err)
	}
	log.Info().
		Int("iterations", out.Iterations).
		Bool("improved", out.Improved).
		Float64("score", out.Result.Score).
		Msg("revision loop finished")

	if out.Improved {
		revisedPath := revisedPathFor(a.cfg.ArticlePath)
		if err := os.WriteFile(revisedPath, []byte(out.Draft), 0o644); err != nil {
			return "", fmt.Errorf("write revised draft: %w", err)
		}
		log.Info().Str("out", revisedPath).Msg("wrote revised draft")
	}
	return out.Draft, nil
}

func revisedPathFor(article string) string {
	ext := filepath.Ext(article)
	return strings.TrimSuffix(article, ext) + ".revised" + ext
}

func (a *App) listGuidelines() error {
	infos, err := a.db.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		log.Info().Msg("store is empty")
		return nil
	}
	for _, info := range infos {
		log.Info().
			Str("id", info.ID).
			Str("name", info.Name).
			Time("createdAt", info.CreatedAt).
			Msg("stored guideline")
	}
	return nil
}

// loadGuideline resolves the requirements and precomputed record either from
// the store (by id or name) or from a guideline file. Record files (.yaml,
// .yml, .json) and text guidelines are told apart by extension.
func (a *App) loadGuideline() (guideline.Requirements, *precompute.Precomputed, error) {
	if a.cfg.GuidelineID != "" {
		entry, err := a.db.Load(a.cfg.GuidelineID)
		if err != nil {
			return guideline.Requirements{}, nil, err
		}
		log.Debug().Str("id", entry.ID).Str("name", entry.Name).Msg("loaded stored guideline")
		return entry.Req, entry.Precomputed, nil
	}

	b, err := os.ReadFile(a.cfg.GuidelinePath)
	if err != nil {
		return guideline.Requirements{}, nil, fmt.Errorf("read guideline: %w", err)
	}

	var src guideline.Source
	switch filepath.Ext(a.cfg.GuidelinePath) {
	case ".yaml", ".yml", ".json":
		src = guideline.RecordSource{Data: b}
	default:
		src = guideline.TextSource{Text: string(b)}
	}
	req, err := src.Normalize()
	if err != nil {
		return guideline.Requirements{}, nil, fmt.Errorf("parse guideline: %w", err)
	}
	pre, err := precompute.Build(req)
	if err != nil {
		return guideline.Requirements{}, nil, err
	}
	log.Debug().
		Int("keywords", len(req.Keywords)).
		Int("questions", len(req.Questions)).
		Msg("guideline loaded")
	return req, pre, nil
}
