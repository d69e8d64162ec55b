package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hyperifyio/goseocheck/internal/report"
	"github.com/hyperifyio/goseocheck/internal/structure"
)

// writeJSON writes v as indented JSON. Struct field order keeps the output
// stable across runs.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// renderText lays out the report as a plain-text document: verdict first,
// then checks grouped by category, keyword metrics, and the action plan.
func renderText(rep *report.Report) string {
	var sb strings.Builder

	sb.WriteString("# Content Compliance Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&sb, "Level: %s\n\n", rep.Level)

	fmt.Fprintf(&sb, "Status: %s\n", rep.Status)
	fmt.Fprintf(&sb, "Quality score: %.1f/100\n", rep.QualityScore)
	fmt.Fprintf(&sb, "Checks passed: %.1f%%\n", rep.PassRate)
	fmt.Fprintf(&sb, "Keyword health: %.1f avg (min %.1f, max %.1f)\n",
		rep.Stats.HealthAvg, rep.Stats.HealthMin, rep.Stats.HealthMax)
	fmt.Fprintf(&sb, "Estimated revision time: %d min\n\n", rep.EstimatedMinutes)

	writeCheckSection(&sb, "## Structure", rep.Checks, structure.CategoryStructure)
	writeCheckSection(&sb, "## Keywords", rep.Checks, structure.CategoryKeyword)
	writeCheckSection(&sb, "## Questions", rep.Checks, structure.CategoryQuestion)

	if len(rep.Metrics) > 0 {
		sb.WriteString("## Keyword metrics\n\n")
		for _, m := range rep.Metrics {
			fmt.Fprintf(&sb, "- %s: %d of %d-%d (%s, %s, health %.1f)\n",
				m.Keyword, m.Current, m.MinRequired, m.MaxAllowed,
				m.Zone, m.Priority, m.HealthScore)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Action plan\n\n")
	if len(rep.Plan.Actions) == 0 {
		sb.WriteString("No actions needed.\n")
	} else {
		for i, a := range rep.Plan.Actions {
			fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, strings.ToUpper(a.Priority.String()), a.Description)
		}
	}
	return sb.String()
}

func writeCheckSection(sb *strings.Builder, title string, checks []structure.Check, cat structure.Category) {
	var lines []string
	for _, c := range checks {
		if c.Category != cat {
			continue
		}
		mark := "PASS"
		if !c.Passed {
			mark = "FAIL"
		}
		label := c.CurrentLabel
		if label == "" {
			label = fmt.Sprintf("%d", c.Current)
		}
		line := fmt.Sprintf("- [%s] %s: %s", mark, c.Metric, label)
		if cat != structure.CategoryQuestion {
			line += fmt.Sprintf(" (expected %s)", c.Expected.String())
		}
		if !c.Passed && c.Feedback != "" {
			line += "\n  " + strings.ReplaceAll(c.Feedback, "\n", "\n  ")
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString("\n\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
