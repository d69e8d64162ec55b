package guideline

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// Source is one of a closed set of guideline representations that can be
// normalized into Requirements. Upstream ingestion picks the variant
// explicitly instead of sniffing the payload at runtime.
type Source interface {
	Normalize() (Requirements, error)
}

// TextSource holds raw guideline text in the section/bullet format.
type TextSource struct {
	Text string
}

func (s TextSource) Normalize() (Requirements, error) {
	req, err := parseText(s.Text)
	if err != nil {
		return Requirements{}, err
	}
	if err := req.Validate(); err != nil {
		return Requirements{}, fmt.Errorf("guideline text: %w", err)
	}
	return req, nil
}

// RecordSource holds a structured guideline record as YAML or JSON bytes.
// YAML is a superset of JSON, so one decoder covers both encodings.
type RecordSource struct {
	Data []byte
}

type record struct {
	Paragraphs rangeField            `yaml:"paragraphs" json:"paragraphs"`
	Images     rangeField            `yaml:"images" json:"images"`
	Headings   rangeField            `yaml:"headings" json:"headings"`
	Characters rangeField            `yaml:"characters" json:"characters"`
	Words      rangeField            `yaml:"words" json:"words"`
	Keywords   map[string]rangeField `yaml:"keywords" json:"keywords"`
	SoftTerms  []string              `yaml:"softTerms" json:"softTerms"`
	Questions  []string              `yaml:"questions" json:"questions"`
	Notes      string                `yaml:"notes" json:"notes"`
}

// rangeField decodes "min"/"max"; a nil max means unbounded.
type rangeField struct {
	Min int  `yaml:"min" json:"min"`
	Max *int `yaml:"max" json:"max"`
}

func (f rangeField) toRange() Range {
	if f.Max == nil {
		return Range{Min: f.Min, Unbounded: true}
	}
	return Range{Min: f.Min, Max: *f.Max}
}

func (s RecordSource) Normalize() (Requirements, error) {
	var rec record
	if err := yaml.Unmarshal(s.Data, &rec); err != nil {
		return Requirements{}, fmt.Errorf("guideline record: %w", err)
	}
	req := Requirements{
		Paragraphs: rec.Paragraphs.toRange(),
		Images:     rec.Images.toRange(),
		Headings:   rec.Headings.toRange(),
		Characters: rec.Characters.toRange(),
		Words:      rec.Words.toRange(),
		SoftTerms:  rec.SoftTerms,
		Questions:  dedupeOrdered(rec.Questions),
		Notes:      rec.Notes,
	}
	if len(rec.Keywords) > 0 {
		req.Keywords = make(map[string]KeywordRange, len(rec.Keywords))
		for kw, f := range rec.Keywords {
			max := f.Min
			if f.Max != nil {
				max = *f.Max
			}
			req.Keywords[kw] = KeywordRange{Min: f.Min, Max: max}
		}
	}
	if err := req.Validate(); err != nil {
		return Requirements{}, fmt.Errorf("guideline record: %w", err)
	}
	return req, nil
}

// Normalize implements Source for an already-normalized Requirements value,
// so callers can feed one back through the same entry point.
func (r Requirements) Normalize() (Requirements, error) {
	if err := r.Validate(); err != nil {
		return Requirements{}, err
	}
	return r, nil
}

func dedupeOrdered(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
