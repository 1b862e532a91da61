// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
package assertplugin

import (
	"context"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/schedule"
	"github.com/alexandre-normand/parsley/test/capture"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"log"
	"strings"
	"testing"
)

// Asserter represents a plugin driver/asserter and holds the bot identity that tests are using when
// sending test messages for processing
type Asserter struct {
	t      *testing.T
	self   parsley.Identity
	logger *log.Logger
}

// New creates a new asserter with the given botUserID (only include the id without the '@' prefix).
// The botUserID is used in order to detect mentions formed with <@botUserID>
func New(t *testing.T, botUserID string, options ...Option) (a *Asserter) {
	a = new(Asserter)
	a.t = t
	a.self = parsley.Identity{ID: botUserID}

	for _, option := range options {
		option(a)
	}

	return a
}

// Option defines an option for the Asserter
type Option func(*Asserter)

// OptionLog sets a logger for the asserter such that this logger is attached to the plugin when driven by
// the asserter
func OptionLog(logger *log.Logger) func(*Asserter) {
	return func(a *Asserter) {
		a.logger = logger
	}
}

// OptionBotName sets the display name of the bot. Plugins see it as their Self.Name and messages starting
// with the name are considered mentions
func OptionBotName(name string) func(*Asserter) {
	return func(a *Asserter) {
		a.self.Name = name
	}
}

// ResultValidator is a function to do further validation of the answers resulting from a plugin processing
// an event. The return value is meant to be true if validation is successful and false otherwise (following
// the testify convention)
type ResultValidator func(t *testing.T, answers []*parsley.Answer) bool

// ScheduleResultValidator is a function to do further validation of the messages sent by a plugin's scheduled actions.
// Sent messages are keyed by channel ID
type ScheduleResultValidator func(t *testing.T, sentMsgs map[string][]string) bool

// Answers drives a plugin with a message and collects its answer. Once collected, it passes handling to
// a validator to assert the expected answers. It follows the style of github.com/stretchr/testify/assert as far as
// returning true/false to indicate success for further nested testing.
//
// The message goes through the same classification as it would with a running bot (a message on a channel starting
// with D is a direct message and a message starting with <@botUserID> is a mention) and only the first action
// triggered answers it. Messages that aren't for the bot result in no answers. An action returning an error fails
// the assertion
func (a *Asserter) Answers(p *parsley.Plugin, m *slack.Msg, validate ResultValidator) (valid bool) {
	msg := *m
	if msg.Type == "" {
		msg.Type = "message"
	}

	a.injectServices(p, capture.NewRealTimeSender())

	e, ok := parsley.NewEventClassifier(a.self).ClassifyMessage(msg)
	if !ok {
		return validate(a.t, make([]*parsley.Answer, 0))
	}

	answers, err := a.driveActions(p, &e)
	if !assert.NoErrorf(a.t, err, "Message [%s] expected to be answered without error", m.Text) {
		return false
	}

	return validate(a.t, answers)
}

// AnswersPin drives a plugin with a pin added event and passes the resulting answers to the validator
func (a *Asserter) AnswersPin(p *parsley.Plugin, pin *slack.PinAddedEvent, validate ResultValidator) (valid bool) {
	a.injectServices(p, capture.NewRealTimeSender())

	e := parsley.NewEventClassifier(a.self).ClassifyPin(*pin)

	answers, err := a.driveActions(p, &e)
	if !assert.NoErrorf(a.t, err, "Pin on channel [%s] expected to be answered without error", pin.Channel) {
		return false
	}

	return validate(a.t, answers)
}

// Fails drives a plugin with a message and asserts that the triggered action fails with an error containing
// errorSubString
func (a *Asserter) Fails(p *parsley.Plugin, m *slack.Msg, errorSubString string) (valid bool) {
	msg := *m
	if msg.Type == "" {
		msg.Type = "message"
	}

	a.injectServices(p, capture.NewRealTimeSender())

	e, ok := parsley.NewEventClassifier(a.self).ClassifyMessage(msg)
	if !assert.Truef(a.t, ok, "Message [%s] expected to be an event for the bot", m.Text) {
		return false
	}

	_, err := a.driveActions(p, &e)
	if !assert.Errorf(a.t, err, "Message [%s] expected to fail but was answered", m.Text) {
		return false
	}

	return assert.Contains(a.t, err.Error(), errorSubString)
}

// RunsOnSchedule runs every scheduled action of the plugin defined with the given schedule and passes the messages
// they sent to the validator. The assertion fails if no scheduled action has that schedule
func (a *Asserter) RunsOnSchedule(p *parsley.Plugin, sched schedule.Definition, validate ScheduleResultValidator) (valid bool) {
	captor := capture.NewRealTimeSender()
	a.injectServices(p, captor)

	if !assert.Truef(a.t, a.runScheduledActions(p, sched), "No scheduled action of plugin [%s] runs on schedule [%s]", p.Name, sched) {
		return false
	}

	return validate(a.t, captor.Messages())
}

// DoesNotRunOnSchedule asserts that no scheduled action of the plugin is defined with the given schedule
func (a *Asserter) DoesNotRunOnSchedule(p *parsley.Plugin, sched schedule.Definition) (valid bool) {
	for _, sa := range p.ScheduledActions {
		if sa.Schedule == sched {
			return assert.Failf(a.t, "Unexpected scheduled action", "Scheduled action [%s] of plugin [%s] runs on schedule [%s]", sa.Description, p.Name, sched)
		}
	}

	return true
}

func (a *Asserter) runScheduledActions(p *parsley.Plugin, sched schedule.Definition) (ran bool) {
	for _, sa := range p.ScheduledActions {
		if sa.Schedule == sched {
			sa.Action()
			ran = true
		}
	}

	return ran
}

func (a *Asserter) injectServices(p *parsley.Plugin, sender parsley.RealTimeMessageSender) {
	p.Logger = parsley.NewSLogger(getLogger(a), true)
	p.RealTimeMsgSender = sender
	p.Self = a.self
}

func getLogger(a *Asserter) (logger *log.Logger) {
	if a.logger != nil {
		return a.logger
	}

	var b strings.Builder
	return log.New(&b, "", 0)
}

// driveActions runs the first action triggered by the event
func (a *Asserter) driveActions(p *parsley.Plugin, e *parsley.IncomingEvent) (answers []*parsley.Answer, err error) {
	answers = make([]*parsley.Answer, 0)

	for _, action := range p.Actions {
		if action.Triggers(e) {
			answer, err := action.Answer(context.Background(), e)
			if err != nil {
				return nil, err
			}

			if answer != nil {
				answers = append(answers, answer)
			}

			return answers, nil
		}
	}

	return answers, nil
}
