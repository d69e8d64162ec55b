package guideline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The guideline text format is a small Markdown dialect:
//
//	## CONTENT STRUCTURE
//	* Paragraphs: 5 - 15
//	* Words: 200 - Infinity
//
//	## IMPORTANT TERMS TO USE
//	* hemp shoes: 17 - 53
//
//	## OTHER RELEVANT TERMS
//	* natural fibers
//
//	## QUESTIONS TO ANSWER
//	* Are hemp shoes durable?
//
//	## NOTES
//	free text
var (
	notesRe     = regexp.MustCompile(`(?s)## NOTES\n(.*?)(?:##|$)`)
	termsRe     = regexp.MustCompile(`(?s)## IMPORTANT TERMS TO USE(.*?)(?:##|$)`)
	softTermsRe = regexp.MustCompile(`(?s)## OTHER RELEVANT TERMS(.*?)(?:##|$)`)
	questionsRe = regexp.MustCompile(`(?s)## QUESTIONS TO ANSWER(.*?)$`)

	termLineRe     = regexp.MustCompile(`\* (.+?): (\d+) - (\d+)`)
	bulletRe       = regexp.MustCompile(`\* (.+)`)
	questionLineRe = regexp.MustCompile(`\* (.+\?)`)
)

// parseText parses the guideline text format into Requirements. Missing
// structure lines default to an unbounded zero range, matching the original
// format's leniency; Validate is the caller's gate for completeness.
func parseText(content string) (Requirements, error) {
	req := Requirements{
		Paragraphs: parseStructureItem(content, "Paragraphs"),
		Images:     parseStructureItem(content, "Images"),
		Headings:   parseStructureItem(content, "Headings"),
		Characters: parseStructureItem(content, "Characters"),
		Words:      parseStructureItem(content, "Words"),
		Keywords:   parseTerms(content),
		SoftTerms:  parseSoftTerms(content),
		Questions:  parseQuestions(content),
		Notes:      parseNotes(content),
	}
	if len(req.Keywords) == 0 {
		return Requirements{}, fmt.Errorf("guideline text: missing IMPORTANT TERMS TO USE section")
	}
	return req, nil
}

func parseStructureItem(content, name string) Range {
	re := regexp.MustCompile(`\* ` + name + `: (\d+) - (Infinity|\d+)`)
	m := re.FindStringSubmatch(content)
	if m == nil {
		return Range{Min: 0, Unbounded: true}
	}
	min, _ := strconv.Atoi(m[1])
	if m[2] == "Infinity" {
		return Range{Min: min, Unbounded: true}
	}
	max, _ := strconv.Atoi(m[2])
	return Range{Min: min, Max: max}
}

func parseTerms(content string) map[string]KeywordRange {
	section := termsRe.FindStringSubmatch(content)
	if section == nil {
		return nil
	}
	terms := map[string]KeywordRange{}
	for _, m := range termLineRe.FindAllStringSubmatch(section[1], -1) {
		min, _ := strconv.Atoi(m[2])
		max, _ := strconv.Atoi(m[3])
		terms[strings.TrimSpace(m[1])] = KeywordRange{Min: min, Max: max}
	}
	return terms
}

func parseSoftTerms(content string) []string {
	section := softTermsRe.FindStringSubmatch(content)
	if section == nil {
		return nil
	}
	var out []string
	for _, m := range bulletRe.FindAllStringSubmatch(section[1], -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// parseQuestions drops duplicate questions while preserving first-seen order.
func parseQuestions(content string) []string {
	section := questionsRe.FindStringSubmatch(content)
	if section == nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, m := range questionLineRe.FindAllStringSubmatch(section[1], -1) {
		q := strings.TrimSpace(m[1])
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

func parseNotes(content string) string {
	m := notesRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
