package fastvalidate

import (
	"strings"
	"testing"

	"github.com/hyperifyio/goseocheck/internal/guideline"
	"github.com/hyperifyio/goseocheck/internal/precompute"
)

func buildValidator(t *testing.T, req guideline.Requirements, level precompute.Level) *Validator {
	t.Helper()
	pre, err := precompute.Build(req)
	if err != nil {
		t.Fatalf("build precomputed: %v", err)
	}
	return New(pre, level)
}

func openStructure() guideline.Requirements {
	open := guideline.Range{Min: 0, Unbounded: true}
	return guideline.Requirements{
		Paragraphs: open,
		Images:     open,
		Headings:   open,
		Characters: open,
		Words:      open,
	}
}

func singleKeywordReq(min, max int) guideline.Requirements {
	req := openStructure()
	req.Keywords = map[string]guideline.KeywordRange{"shoes": {Min: min, Max: max}}
	return req
}

func TestStatusClassification(t *testing.T) {
	// Range 5-15 at upper level: target round(5+10*0.625) = 11.
	v := buildValidator(t, singleKeywordReq(5, 15), precompute.Upper)
	for _, tc := range []struct {
		count  int
		status Status
	}{
		{3, BelowMin},
		{7, BelowTarget},
		{11, AtTarget},
		{13, AboveTarget},
		{20, AboveMax},
	} {
		res := v.Validate(strings.Repeat("shoes ", tc.count))
		var got Status
		if tc.status == AtTarget {
			if len(res.Keywords) != 0 {
				t.Fatalf("at-target keyword must not appear in feedback: %+v", res.Keywords)
			}
			if res.AtTarget != 1 {
				t.Fatalf("atTarget = %d", res.AtTarget)
			}
			continue
		}
		if len(res.Keywords) != 1 {
			t.Fatalf("count %d: feedback = %+v", tc.count, res.Keywords)
		}
		got = res.Keywords[0].Status
		if got != tc.status {
			t.Fatalf("count %d: status = %v, want %v", tc.count, got, tc.status)
		}
	}
}

func TestSeverityScaling(t *testing.T) {
	v := buildValidator(t, singleKeywordReq(5, 15), precompute.Upper)

	// Out of range is always critical.
	res := v.Validate("shoes")
	if res.Keywords[0].Severity != Critical {
		t.Fatalf("below min severity = %v", res.Keywords[0].Severity)
	}

	// Target 11, count 5: delta 6 over span 10 = 60% -> high.
	res = v.Validate(strings.Repeat("shoes ", 5))
	if res.Keywords[0].Severity != High {
		t.Fatalf("delta 60%% severity = %v, want high", res.Keywords[0].Severity)
	}

	// Count 8: delta 3 over span 10 = 30% -> medium.
	res = v.Validate(strings.Repeat("shoes ", 8))
	if res.Keywords[0].Severity != Medium {
		t.Fatalf("delta 30%% severity = %v, want medium", res.Keywords[0].Severity)
	}

	// Count 10: delta 1 over span 10 = 10% -> low.
	res = v.Validate(strings.Repeat("shoes ", 10))
	if res.Keywords[0].Severity != Low {
		t.Fatalf("delta 10%% severity = %v, want low", res.Keywords[0].Severity)
	}

	// Above target but within range -> low.
	res = v.Validate(strings.Repeat("shoes ", 14))
	if res.Keywords[0].Severity != Low || res.Keywords[0].Status != AboveTarget {
		t.Fatalf("above target = %+v", res.Keywords[0])
	}
}

func TestPerfectScore(t *testing.T) {
	v := buildValidator(t, singleKeywordReq(5, 15), precompute.Upper)
	res := v.Validate(strings.Repeat("shoes ", 11))
	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if !res.StructureValid {
		t.Fatalf("structure feedback = %v", res.StructureFeedback)
	}
	if !strings.HasPrefix(res.Summary, "Excellent") {
		t.Fatalf("summary = %q", res.Summary)
	}
}

func TestStructurePenalty(t *testing.T) {
	req := singleKeywordReq(1, 5)
	req.Words = guideline.Range{Min: 100, Max: 200}
	v := buildValidator(t, req, precompute.Conservative)

	res := v.Validate("shoes shoes")
	if res.StructureValid {
		t.Fatalf("11 words cannot satisfy a 100-word minimum")
	}
	if len(res.StructureFeedback) == 0 || !strings.Contains(res.StructureFeedback[0], "words") {
		t.Fatalf("structure feedback = %v", res.StructureFeedback)
	}
}

func TestFeedbackOrdering(t *testing.T) {
	req := openStructure()
	req.Keywords = map[string]guideline.KeywordRange{
		"alpha": {Min: 5, Max: 15}, // absent: critical
		"beta":  {Min: 1, Max: 21}, // count 2, target 14: high (delta 12)
		"gamma": {Min: 1, Max: 3},  // count 2, target 2: at target
	}
	v := buildValidator(t, req, precompute.Upper)
	res := v.Validate("beta beta gamma gamma")

	if len(res.Keywords) != 2 {
		t.Fatalf("feedback = %+v", res.Keywords)
	}
	if res.Keywords[0].Keyword != "alpha" || res.Keywords[0].Severity != Critical {
		t.Fatalf("critical first, got %+v", res.Keywords[0])
	}
	if res.Keywords[1].Keyword != "beta" {
		t.Fatalf("high second, got %+v", res.Keywords[1])
	}
}

func TestUnknownCountsDefaultZero(t *testing.T) {
	v := buildValidator(t, singleKeywordReq(5, 15), precompute.Upper)
	res := v.Validate("entirely unrelated content")
	if res.Keywords[0].Current != 0 || res.Keywords[0].Status != BelowMin {
		t.Fatalf("absent keyword = %+v", res.Keywords[0])
	}
}

func TestSummaryCounts(t *testing.T) {
	req := openStructure()
	req.Keywords = map[string]guideline.KeywordRange{
		"alpha": {Min: 5, Max: 15},
		"beta":  {Min: 5, Max: 15},
	}
	v := buildValidator(t, req, precompute.Upper)
	res := v.Validate("no tracked terms at all")
	if !strings.Contains(res.Summary, "2 critical issues") {
		t.Fatalf("summary = %q", res.Summary)
	}
}
