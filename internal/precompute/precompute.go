// Package precompute turns a guideline into an immutable record of
// per-level, per-keyword targets so validation can be re-run repeatedly
// without repeating the boundary math. The record is built once per
// guideline and is safe for concurrent readers.
package precompute

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

// Level is an aggressiveness preset: how far into a keyword's allowed range
// the validator should push usage. Each level targets the midpoint of a
// different 25%-wide sub-band of the range. The percentile constants are
// load-bearing and must not be retuned.
type Level int

const (
	Conservative Level = iota
	Moderate
	Upper
	Aggressive
)

// Levels lists all levels in ascending aggressiveness.
var Levels = [4]Level{Conservative, Moderate, Upper, Aggressive}

func (l Level) String() string {
	switch l {
	case Conservative:
		return "conservative"
	case Moderate:
		return "moderate"
	case Upper:
		return "upper"
	case Aggressive:
		return "aggressive"
	}
	return "unknown"
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// TargetFraction is the point inside [min,max] this level aims at: the
// midpoint of the level's quartile sub-band.
func (l Level) TargetFraction() float64 {
	switch l {
	case Conservative:
		return 0.125
	case Moderate:
		return 0.375
	case Upper:
		return 0.625
	default:
		return 0.875
	}
}

// ZoneBounds returns the fractional sub-band of [min,max] this level treats
// as its target zone.
func (l Level) ZoneBounds() (lo, hi float64) {
	switch l {
	case Conservative:
		return 0.00, 0.25
	case Moderate:
		return 0.25, 0.50
	case Upper:
		return 0.50, 0.75
	default:
		return 0.75, 1.00
	}
}

// ParseLevel accepts level names and the legacy Q1..Q4 aliases.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conservative", "q1":
		return Conservative, nil
	case "moderate", "q2":
		return Moderate, nil
	case "upper", "q3", "":
		return Upper, nil
	case "aggressive", "q4":
		return Aggressive, nil
	}
	return Upper, fmt.Errorf("unknown level %q (want conservative|moderate|upper|aggressive)", s)
}

// KeywordTarget is the precomputed record for one keyword at one level.
type KeywordTarget struct {
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Boundary float64 `json:"boundary"`
	Target   int     `json:"target"`
}

// Precomputed holds the structural bounds and the four level-specific
// keyword-target tables for one guideline. Treat it as immutable once built;
// editing the source guideline means rebuilding from scratch.
type Precomputed struct {
	Paragraphs guideline.Range `json:"paragraphs"`
	Images     guideline.Range `json:"images"`
	Headings   guideline.Range `json:"headings"`
	Characters guideline.Range `json:"characters"`
	Words      guideline.Range `json:"words"`

	// Keywords holds one target table per level, indexed by Level.
	Keywords [4]map[string]KeywordTarget `json:"keywords"`

	SoftTerms []string `json:"softTerms,omitempty"`
	Questions []string `json:"questions,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// Build runs the boundary and target math once for every keyword at every
// level. Identical requirements always produce an identical record.
func Build(req guideline.Requirements) (*Precomputed, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("precompute: %w", err)
	}
	p := &Precomputed{
		Paragraphs: req.Paragraphs,
		Images:     req.Images,
		Headings:   req.Headings,
		Characters: req.Characters,
		Words:      req.Words,
		SoftTerms:  append([]string(nil), req.SoftTerms...),
		Questions:  append([]string(nil), req.Questions...),
		Notes:      req.Notes,
	}
	for _, lvl := range Levels {
		table := make(map[string]KeywordTarget, len(req.Keywords))
		for kw, rng := range req.Keywords {
			table[kw] = targetFor(lvl, rng)
		}
		p.Keywords[lvl] = table
	}
	return p, nil
}

func targetFor(lvl Level, rng guideline.KeywordRange) KeywordTarget {
	span := float64(rng.Max - rng.Min)
	if span == 0 {
		return KeywordTarget{Min: rng.Min, Max: rng.Max, Boundary: float64(rng.Min), Target: rng.Min}
	}
	_, hi := lvl.ZoneBounds()
	return KeywordTarget{
		Min:      rng.Min,
		Max:      rng.Max,
		Boundary: float64(rng.Min) + span*hi,
		Target:   int(math.RoundToEven(float64(rng.Min) + span*lvl.TargetFraction())),
	}
}

// Targets returns the keyword-target table for a level. Callers must not
// mutate the returned map.
func (p *Precomputed) Targets(lvl Level) map[string]KeywordTarget {
	return p.Keywords[lvl]
}

// KeywordRanges reconstructs the plain keyword range table, which is the
// same at every level.
func (p *Precomputed) KeywordRanges() map[string]guideline.KeywordRange {
	src := p.Keywords[Conservative]
	out := make(map[string]guideline.KeywordRange, len(src))
	for kw, t := range src {
		out[kw] = guideline.KeywordRange{Min: t.Min, Max: t.Max}
	}
	return out
}

// StructuralBounds reconstructs the Requirements view of the record, used by
// the fast validator's structure checks.
func (p *Precomputed) StructuralBounds() guideline.Requirements {
	return guideline.Requirements{
		Paragraphs: p.Paragraphs,
		Images:     p.Images,
		Headings:   p.Headings,
		Characters: p.Characters,
		Words:      p.Words,
		Keywords:   p.KeywordRanges(),
		SoftTerms:  p.SoftTerms,
		Questions:  p.Questions,
		Notes:      p.Notes,
	}
}

// Encode serializes the record. encoding/json writes map keys in sorted
// order, so identical records encode byte-identically.
func (p *Precomputed) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Decode restores a record produced by Encode.
func Decode(data []byte) (*Precomputed, error) {
	var p Precomputed
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode precomputed guideline: %w", err)
	}
	return &p, nil
}
