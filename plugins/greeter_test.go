package plugins_test

import (
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/plugins"
	"github.com/alexandre-normand/parsley/test/assertaction"
	"github.com/alexandre-normand/parsley/test/assertanswer"
	"github.com/alexandre-normand/parsley/test/assertplugin"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGreetOnMention(t *testing.T) {
	p := plugins.NewGreeter()
	assert.NotNil(t, p)

	assertplugin := assertplugin.New(t, "bot", assertplugin.OptionBotName("parsley"))

	assertplugin.Answers(p, &slack.Msg{Channel: "C1", User: "U1", Text: "<@bot> hello there"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Hi, I am parsley")
	})
}

func TestGreetOnAnyMentionText(t *testing.T) {
	p := plugins.NewGreeter()
	assertplugin := assertplugin.New(t, "bot", assertplugin.OptionBotName("parsley"))

	for _, text := range []string{"<@bot> !John", "<@bot>: what's up", "@parsley hey", "<@bot>", "hey <@bot> how are you?"} {
		assertplugin.Answers(p, &slack.Msg{Channel: "C1", User: "U1", Text: text}, func(t *testing.T, answers []*parsley.Answer) bool {
			return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Hi, I am parsley")
		})
	}
}

func TestNoGreetingOnDirectMessageOrConversation(t *testing.T) {
	p := plugins.NewGreeter()
	assertplugin := assertplugin.New(t, "bot", assertplugin.OptionBotName("parsley"))

	assertplugin.Answers(p, &slack.Msg{Channel: "DPRIVATE", User: "U1", Text: "hello"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Empty(t, answers)
	})

	assertplugin.Answers(p, &slack.Msg{Channel: "C1", User: "U1", Text: "parsley is slow today"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Empty(t, answers)
	})

	assertplugin.Answers(p, &slack.Msg{Channel: "C1", User: "U1", Text: "hello everyone"}, func(t *testing.T, answers []*parsley.Answer) bool {
		return assert.Empty(t, answers)
	})
}

func TestGreetFailsWithoutName(t *testing.T) {
	p := plugins.NewGreeter()
	assertplugin := assertplugin.New(t, "bot")

	assertplugin.Fails(p, &slack.Msg{Channel: "C1", User: "U1", Text: "<@bot> hello"}, "bot identity [bot] has no name")
}

func TestGreetingAction(t *testing.T) {
	p := plugins.NewGreeter()
	p.Self = parsley.Identity{ID: "bot", Name: "parsley"}

	if assert.Len(t, p.Actions, 1) {
		greeting := p.Actions[0]

		assertaction.MatchesAndAnswers(t, greeting, &parsley.IncomingEvent{Type: parsley.DirectMention, NormalizedText: "hi", Msg: slack.Msg{Channel: "C1", User: "U1"}}, func(t *testing.T, a *parsley.Answer) bool {
			return assertanswer.HasText(t, a, "Hi, I am parsley")
		})
		assertaction.NotMatch(t, greeting, &parsley.IncomingEvent{Type: parsley.DirectMessage, NormalizedText: "hi", Msg: slack.Msg{Channel: "DPRIVATE", User: "U1"}})
		assertaction.NotMatch(t, greeting, &parsley.IncomingEvent{Type: parsley.PinAdded, Msg: slack.Msg{Channel: "C1", User: "U1"}})
	}
}

func TestGreetingActionFailsWhenIdentityIsUnnamed(t *testing.T) {
	p := plugins.NewGreeter()
	p.Self = parsley.Identity{ID: "bot"}

	if assert.Len(t, p.Actions, 1) {
		assertaction.MatchesAndFails(t, p.Actions[0], &parsley.IncomingEvent{Type: parsley.DirectMention, NormalizedText: "hi", Msg: slack.Msg{Channel: "C1", User: "U1"}}, "has no name to introduce itself with")
	}
}
