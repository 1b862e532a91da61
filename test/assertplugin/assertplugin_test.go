package assertplugin_test

import (
	"context"
	"errors"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/schedule"
	"github.com/alexandre-normand/parsley/test/assertanswer"
	"github.com/alexandre-normand/parsley/test/assertplugin"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"log"
	"strings"
	"testing"
)

type myLittleTester struct {
	parsley.Plugin
}

func newLittleTester() (mlt *myLittleTester) {
	mlt = new(myLittleTester)
	mlt.Name = "myLittleTester"

	mlt.Actions = []parsley.ActionDefinition{
		{
			Events:      []parsley.EventType{parsley.DirectMention},
			Usage:       "@bot",
			Description: "Introduces itself",
			Answer:      mlt.introduce,
		},
		{
			Events: []parsley.EventType{parsley.DirectMessage},
			Match: func(e *parsley.IncomingEvent) bool {
				return strings.HasPrefix(e.NormalizedText, "where is the chickadee")
			},
			Answer: mlt.findChickadee,
		},
		{
			Events: []parsley.EventType{parsley.DirectMessage},
			Match: func(e *parsley.IncomingEvent) bool {
				return strings.Contains(e.NormalizedText, "chickadee")
			},
			Answer: func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
				return &parsley.Answer{Text: "never reached when the first action matches"}, nil
			},
		},
		{
			Events: []parsley.EventType{parsley.DirectMessage},
			Match: func(e *parsley.IncomingEvent) bool {
				return e.NormalizedText == "blue jays"
			},
			Answer: func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
				return nil, errors.New("too noisy")
			},
		},
		{
			Events: []parsley.EventType{parsley.DirectMessage},
			Match: func(e *parsley.IncomingEvent) bool {
				return e.NormalizedText == "shh"
			},
			Answer: func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
				return nil, nil
			},
		},
		{
			Events: []parsley.EventType{parsley.PinAdded},
			Answer: func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
				return &parsley.Answer{Text: "pinned on " + e.Channel}, nil
			},
		},
	}

	mlt.ScheduledActions = []parsley.ScheduledActionDefinition{
		{Schedule: schedule.Definition{Interval: 1, Unit: schedule.Minutes}, Description: "Check health", Action: mlt.healthStatus},
	}

	return mlt
}

func (mlt *myLittleTester) introduce(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
	return &parsley.Answer{Text: "Hi, I am " + mlt.Self.Name}, nil
}

func (mlt *myLittleTester) findChickadee(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
	mlt.Logger.Debugf("a debug statement")

	return &parsley.Answer{Text: "👀 in the 🌲"}, nil
}

func (mlt *myLittleTester) healthStatus() {
	mlt.RealTimeMsgSender.SendMessage(mlt.RealTimeMsgSender.NewOutgoingMessage("healthy", "test"))
}

func TestMentionResultNonValid(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "C1", Text: "<@bot> hello"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 10)
	}))
}

func TestMentionResultValid(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot", assertplugin.OptionBotName("parsley"))
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "C1", Text: "<@bot> hello"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Hi, I am parsley")
	}))
}

func TestMentionByNameResultValid(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot", assertplugin.OptionBotName("parsley"))
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "C1", Text: "@parsley hello"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Hi, I am parsley")
	}))
}

func TestRegularConversationIgnored(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "C1", Text: "where is the chickadee"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Empty(t, answers)
	}))
}

func TestLoggerAttached(t *testing.T) {
	mockT := new(testing.T)

	var b strings.Builder
	logger := log.New(&b, "", 0)
	assertplugin := assertplugin.New(mockT, "bot", assertplugin.OptionLog(logger))
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "where is the chickadee"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "👀 in the 🌲") && assert.Equal(t, "a debug statement\n", b.String())
	}))
}

func TestFirstTriggeredActionAnswers(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "where is the chickadee"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "👀 in the 🌲")
	}))
}

func TestDirectMessageWithMentionStripped(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "<@bot> where is the chickadee"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "👀 in the 🌲")
	}))
}

func TestNilAnswer(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "shh"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Empty(t, answers)
	}))
}

func TestAnswersWhenActionFails(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.Answers(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "blue jays"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return true
	}))
}

func TestFails(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.Fails(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "blue jays"}, "too noisy"))
}

func TestFailsWhenAnswered(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.Fails(&myLittleTester.Plugin, &slack.Msg{Channel: "DTOTHEBOT", Text: "where is the chickadee"}, "too noisy"))
}

func TestFailsWhenNotForTheBot(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.Fails(&myLittleTester.Plugin, &slack.Msg{Channel: "C1", Text: "blue jays"}, "too noisy"))
}

func TestAnswersPin(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.AnswersPin(&myLittleTester.Plugin, &slack.PinAddedEvent{Type: "pin_added", Channel: "C1", User: "U1"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "pinned on C1")
	}))
}

func TestRunsOnScheduleAssert(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.RunsOnSchedule(&myLittleTester.Plugin, schedule.Definition{Interval: 1, Unit: schedule.Minutes}, func(t *testing.T, sentMsgs map[string][]string) bool {
		return assert.Len(t, sentMsgs, 1) && assert.Contains(t, sentMsgs, "test") && assert.Contains(t, sentMsgs["test"], "healthy")
	}))
}

func TestRunsOnScheduleAssertWhenDoesNotRun(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.RunsOnSchedule(&myLittleTester.Plugin, schedule.Definition{Interval: 1, Unit: schedule.Hours}, func(t *testing.T, sentMsgs map[string][]string) bool {
		return true
	}))
}

func TestRunsOnScheduleAssertFailingValidator(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.RunsOnSchedule(&myLittleTester.Plugin, schedule.Definition{Interval: 1, Unit: schedule.Minutes}, func(t *testing.T, sentMsgs map[string][]string) bool {
		return assert.Contains(t, sentMsgs, "myOtherChannel")
	}))
}

func TestDoesNotOnScheduleAssert(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, true, assertplugin.DoesNotRunOnSchedule(&myLittleTester.Plugin, schedule.Definition{Interval: 1, Unit: schedule.Hours}))
}

func TestDoesNotOnScheduleAssertWhenRunsOnSchedule(t *testing.T) {
	mockT := new(testing.T)
	assertplugin := assertplugin.New(mockT, "bot")
	myLittleTester := newLittleTester()

	assert.Equal(t, false, assertplugin.DoesNotRunOnSchedule(&myLittleTester.Plugin, schedule.Definition{Interval: 1, Unit: schedule.Minutes}))
}
