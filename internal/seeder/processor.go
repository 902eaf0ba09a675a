// backend/internal/seeder/processor.go
package seeder

import (
	"regexp"
	"strings"
)

// ContentProcessor handles text processing and cleanup of fixture values
type ContentProcessor struct {
	multiWhitespace *regexp.Regexp
	htmlTags        *regexp.Regexp
}

func NewContentProcessor() *ContentProcessor {
	return &ContentProcessor{
		multiWhitespace: regexp.MustCompile(`\s+`),
		htmlTags:        regexp.MustCompile(`<[^>]*>`),
	}
}

// CleanText strips markup and collapses whitespace
func (cp *ContentProcessor) CleanText(content string) string {
	content = cp.htmlTags.ReplaceAllString(content, "")
	content = cp.multiWhitespace.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// CleanList cleans every entry, dropping blanks and duplicates while keeping order
func (cp *ContentProcessor) CleanList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = cp.CleanText(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cp.removeDuplicates(cleaned)
}

func (cp *ContentProcessor) NormalizeEmail(email string) string {
	return strings.ToLower(cp.CleanText(email))
}

// removeDuplicates removes duplicate strings from slice
func (cp *ContentProcessor) removeDuplicates(slice []string) []string {
	keys := make(map[string]bool)
	var result []string

	for _, item := range slice {
		if !keys[item] {
			keys[item] = true
			result = append(result, item)
		}
	}

	return result
}
