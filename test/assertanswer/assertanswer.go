// Package assertanswer provides testing functions to validate a plugin's answer
package assertanswer

import (
	"github.com/alexandre-normand/parsley"
	"github.com/stretchr/testify/assert"
	"strings"
	"testing"
)

// ResolvedAnswerOption holds a pair of Key/Value representing the physical AnswerOption
type ResolvedAnswerOption struct {
	Key   string
	Value string
}

// HasText asserts that the answer's text is the expected text
func HasText(t *testing.T, answer *parsley.Answer, text string) bool {
	if assert.NotNil(t, answer) {
		return assert.Equalf(t, text, answer.Text, "Answer text expected to be [%s] but was [%s]", text, answer.Text)
	}
	return false
}

// HasTextContaining asserts that the answer's text contains the expected subString
func HasTextContaining(t *testing.T, answer *parsley.Answer, subString string) bool {
	if assert.NotNil(t, answer) {
		return assert.Containsf(t, answer.Text, subString, "Answer expected to have text containing [%s] but its text [%s] didn't", subString, answer.Text)
	}
	return false
}

// HasLinesWithPrefix asserts that exactly count lines of the answer's text start with prefix. This is useful
// to validate the number of sections of a multi-line answer
func HasLinesWithPrefix(t *testing.T, answer *parsley.Answer, prefix string, count int) bool {
	if assert.NotNil(t, answer) {
		lines := LinesWithPrefix(answer, prefix)
		return assert.Lenf(t, lines, count, "Answer expected to have [%d] lines starting with [%s] but had [%d]: %s", count, prefix, len(lines), lines)
	}
	return false
}

// LinesWithPrefix returns the lines of the answer's text that start with prefix, in order
func LinesWithPrefix(answer *parsley.Answer, prefix string) (lines []string) {
	lines = make([]string, 0)
	if answer == nil {
		return lines
	}

	for _, l := range strings.Split(answer.Text, "\n") {
		if strings.HasPrefix(l, prefix) {
			lines = append(lines, l)
		}
	}

	return lines
}

// HasOptions asserts that the answer's options contains the expected configuration key/values
func HasOptions(t *testing.T, answer *parsley.Answer, options ...ResolvedAnswerOption) bool {
	if assert.NotNil(t, answer) {
		ropts := convertConfigsToResolvedAnswerOptions(parsley.ApplyAnswerOpts(answer.Options...))
		return assert.ElementsMatchf(t, options, ropts, "Answer options expected %s but were %s", options, ropts)
	}
	return false
}

// convertConfigsToResolvedAnswerOptions converts a map[string]string of answer options to an array
// of ResolvedAnswerOptions for easier matching
func convertConfigsToResolvedAnswerOptions(configs map[string]string) (ropts []ResolvedAnswerOption) {
	ropts = make([]ResolvedAnswerOption, 0)

	for key, value := range configs {
		ropts = append(ropts, ResolvedAnswerOption{Key: key, Value: value})
	}

	return ropts
}
