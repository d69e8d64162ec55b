package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	GuidelinePath string
	ArticlePath   string
	OutputPath    string
	ReportPath    string
	PDFPath       string

	Level string

	// Fast switches the run to the precomputed fast path.
	Fast bool

	// Store
	StorePath     string
	SaveGuideline string
	GuidelineID   string
	ListStore     bool
	DeleteID      string

	// LLM revision loop
	Revise        bool
	LLMBaseURL    string
	LLMModel      string
	LLMAPIKey     string
	MaxIterations int
	TargetScore   float64

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	Verbose bool
}
