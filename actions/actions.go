/*
Package actions provides a fluent API for creating parsley plugin actions. Typical usages
will also involve using the plugin fluent API from github.com/alexandre-normand/parsley/plugin.

Plugin examples using this API can be found in github.com/alexandre-normand/parsley/plugins but
a quick one could look like:

	import (
		"github.com/alexandre-normand/parsley"
		"github.com/alexandre-normand/parsley/plugin"
		"github.com/alexandre-normand/parsley/actions"
	)

	func newPlugin() (p *parsley.Plugin) {
		p = plugin.New("maker").
			WithAction(actions.New(parsley.DirectMessage).
				WithMatcher(func(e *parsley.IncomingEvent) bool {
					return strings.HasPrefix(e.NormalizedText, "make")
				}).
				WithUsage("make <something>").
				WithDescription("Make the `<something>` you need").
				WithAnswerer(func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
					return &parsley.Answer{Text: ":white_check_mark: It's ready for you!"}, nil
				}).
				Build()).
			WithScheduledAction(actions.NewScheduledAction().
				WithSchedule(schedule.New().Every(time.Monday.String()).AtTime("10:00").Build()).
				WithDescription("Start the week off").
				WithAction(weeklyKickoff).
				Build()).
			Build()
		return p
	}
*/
package actions

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/schedule"
)

// ActionBuilder holds the action to build
type ActionBuilder struct {
	action parsley.ActionDefinition
}

// ScheduledActionBuilder holds the scheduled action to build
type ScheduledActionBuilder struct {
	scheduledAction parsley.ScheduledActionDefinition
}

var (
	// Default to always match. Actions that care about the text (or the lack of it) are expected to set
	// a matcher so that the next action gets a chance at the event
	defaultMatcher = func(e *parsley.IncomingEvent) bool {
		return true
	}

	// Default to always return nil. This is not a default you want to use in most cases
	defaultAnswerer = func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
		return nil, nil
	}
)

// New creates a new action triggered by the given event types and returns the ActionBuilder to set
// various attributes of the action. When done with the setup, the caller is expected to call Build() to get
// the action
func New(events ...parsley.EventType) (ab *ActionBuilder) {
	ab = new(ActionBuilder)
	ab.action = parsley.ActionDefinition{Hidden: false}

	ab.action.Events = append([]parsley.EventType{}, events...)
	ab.action.Match = defaultMatcher
	ab.action.Answer = defaultAnswerer

	return ab
}

// WithMatcher sets the action's matcher function
func (ab *ActionBuilder) WithMatcher(matcher parsley.Matcher) *ActionBuilder {
	ab.action.Match = matcher
	return ab
}

// WithUsage sets the action usage
func (ab *ActionBuilder) WithUsage(usage string) *ActionBuilder {
	ab.action.Usage = usage
	return ab
}

// WithDescription sets the action description
func (ab *ActionBuilder) WithDescription(description string) *ActionBuilder {
	ab.action.Description = description
	return ab
}

// WithDescriptionf sets the action description delegating format and arguments to fmt.Sprintf
func (ab *ActionBuilder) WithDescriptionf(format string, a ...interface{}) *ActionBuilder {
	ab.action.Description = fmt.Sprintf(format, a...)
	return ab
}

// WithAnswerer sets the action's answerer function
func (ab *ActionBuilder) WithAnswerer(answerer parsley.Answerer) *ActionBuilder {
	ab.action.Answer = answerer
	return ab
}

// Hidden sets the action to hidden
func (ab *ActionBuilder) Hidden() *ActionBuilder {
	ab.action.Hidden = true
	return ab
}

// Build returns the ActionDefinition
func (ab *ActionBuilder) Build() parsley.ActionDefinition {
	return ab.action
}

// NewScheduledAction returns a new ScheduledActionBuilder to build a new ScheduledActionDefinition
func NewScheduledAction() (sab *ScheduledActionBuilder) {
	sab = new(ScheduledActionBuilder)
	sab.scheduledAction = parsley.ScheduledActionDefinition{Hidden: false}
	sab.scheduledAction.Action = func() {}

	return sab
}

// WithSchedule sets the schedule for the scheduled action
func (sab *ScheduledActionBuilder) WithSchedule(schedule schedule.Definition) *ScheduledActionBuilder {
	sab.scheduledAction.Schedule = schedule
	return sab
}

// WithDescription sets the scheduled action description
func (sab *ScheduledActionBuilder) WithDescription(desc string) *ScheduledActionBuilder {
	sab.scheduledAction.Description = desc
	return sab
}

// WithDescriptionf sets the scheduled action description delegating format and arguments to fmt.Sprintf
func (sab *ScheduledActionBuilder) WithDescriptionf(format string, a ...interface{}) *ScheduledActionBuilder {
	sab.scheduledAction.Description = fmt.Sprintf(format, a...)
	return sab
}

// WithAction sets the action function to run on schedule
func (sab *ScheduledActionBuilder) WithAction(action parsley.ScheduledAction) *ScheduledActionBuilder {
	sab.scheduledAction.Action = action
	return sab
}

// Hidden sets the scheduled action to hidden
func (sab *ScheduledActionBuilder) Hidden() *ScheduledActionBuilder {
	sab.scheduledAction.Hidden = true
	return sab
}

// Build returns the ScheduledActionDefinition
func (sab *ScheduledActionBuilder) Build() parsley.ScheduledActionDefinition {
	return sab.scheduledAction
}
