package structure

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	mdImageRe     = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	placeholderRe = regexp.MustCompile(`(?i)\[IMAGE:.*?\]`)
	htmlImgRe     = regexp.MustCompile(`(?i)<img[^>]*>`)
	htmlHeadingRe = regexp.MustCompile(`(?is)<h[1-6][^>]*>.*?</h[1-6]>`)
	mdHeadingRe   = regexp.MustCompile(`(?m)^\s*(#{1,6})\s+.+$`)
	wordRe        = regexp.MustCompile(`\b\w+\b`)
)

// VisibleText strips HTML tags, markdown image syntax, and bracketed image
// placeholders so character and word counts reflect reader-visible text.
func VisibleText(content string) string {
	clean := stripTags(content)
	clean = mdImageRe.ReplaceAllString(clean, "")
	clean = placeholderRe.ReplaceAllString(clean, "")
	return clean
}

// stripTags removes HTML elements using a tokenizer pass, keeping only text
// tokens. Content without any '<' passes through untouched.
func stripTags(content string) string {
	if !strings.ContainsRune(content, '<') {
		return content
	}
	tok := html.NewTokenizer(strings.NewReader(content))
	var b strings.Builder
	b.Grow(len(content))
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}
