package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern    = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	nonWordPattern = regexp.MustCompile(`[^a-z0-9\s]`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and keeps only the visible text.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())
	plainText := html.UnescapeString(htmlTagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plainText), " ")
}

// NormalizeText lowercases text and keeps only ASCII letters, digits and
// single spaces.
func NormalizeText(input string) string {
	text := strings.ToLower(ConvertMarkdownToText(input))
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
