// Package assertaction provides testing functions for validation a plugin action's behavior
package assertaction

import (
	"context"
	"github.com/alexandre-normand/parsley"
	"github.com/stretchr/testify/assert"
	"testing"
)

// AnswerValidator is a function to do further validation of an action's answer. The return value is meant to be true if validation
// is successful and false otherwise (following the testify convention)
type AnswerValidator func(t *testing.T, a *parsley.Answer) bool

// MatchesAndAnswers asserts that the action is triggered by the event and answers it without error. The answer
// is then handed to AnswerValidator for further validation
func MatchesAndAnswers(t *testing.T, action parsley.ActionDefinition, e *parsley.IncomingEvent, validateAnswer AnswerValidator) bool {
	if !assert.Truef(t, action.Triggers(e), "Event [%s] with text [%s] expected to trigger the action but it didn't", e.Type, e.NormalizedText) {
		return false
	}

	a, err := action.Answer(context.Background(), e)
	if !assert.NoErrorf(t, err, "Event [%s] with text [%s] expected to be answered without error", e.Type, e.NormalizedText) {
		return false
	}

	return validateAnswer(t, a)
}

// MatchesAndFails asserts that the action is triggered by the event and that its answerer returns an error
// containing errorSubString
func MatchesAndFails(t *testing.T, action parsley.ActionDefinition, e *parsley.IncomingEvent, errorSubString string) bool {
	if !assert.Truef(t, action.Triggers(e), "Event [%s] with text [%s] expected to trigger the action but it didn't", e.Type, e.NormalizedText) {
		return false
	}

	_, err := action.Answer(context.Background(), e)
	if !assert.Errorf(t, err, "Event [%s] with text [%s] expected to fail but was answered", e.Type, e.NormalizedText) {
		return false
	}

	return assert.Contains(t, err.Error(), errorSubString)
}

// NotMatch asserts that the action is not triggered by the event
func NotMatch(t *testing.T, action parsley.ActionDefinition, e *parsley.IncomingEvent) bool {
	return assert.Falsef(t, action.Triggers(e), "Event [%s] with text [%s] should not trigger the action but it did", e.Type, e.NormalizedText)
}
