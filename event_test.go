package parsley_test

import (
	"fmt"
	"github.com/alexandre-normand/parsley"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		text            string
		expectedForm    parsley.TextForm
		expectedContent string
	}{
		{"", parsley.NoForm, ""},
		{"   ", parsley.NoForm, ""},
		{"!", parsley.NoForm, ""},
		{"!  ", parsley.NoForm, ""},
		{"!John", parsley.ShortForm, "John"},
		{"!John went to Paris", parsley.ShortForm, "John went to Paris"},
		{"! John", parsley.ShortForm, " John"},
		{"!!", parsley.ShortForm, "!"},
		{"a", parsley.FullForm, "a"},
		{"John went to Paris. He liked it.", parsley.FullForm, "John went to Paris. He liked it."},
		{"hello !there", parsley.FullForm, "hello !there"},
		{" !not short", parsley.FullForm, " !not short"},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%q", tc.text), func(t *testing.T) {
			form, content := parsley.ClassifyText(tc.text)

			assert.Equal(t, tc.expectedForm, form)
			assert.Equal(t, tc.expectedContent, content)
		})
	}
}

func TestTextFormString(t *testing.T) {
	assert.Equal(t, "none", parsley.NoForm.String())
	assert.Equal(t, "short", parsley.ShortForm.String())
	assert.Equal(t, "full", parsley.FullForm.String())
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "directMention", parsley.DirectMention.String())
	assert.Equal(t, "directMessage", parsley.DirectMessage.String())
	assert.Equal(t, "pinAdded", parsley.PinAdded.String())
	assert.Equal(t, "unknown(42)", parsley.EventType(42).String())
}

func TestClassifyMessage(t *testing.T) {
	ec := parsley.NewEventClassifier(parsley.Identity{ID: "UBOT", BotID: "BBOT", Name: "parsley"})

	tests := map[string]struct {
		msg                    slack.Msg
		expectedOk             bool
		expectedType           parsley.EventType
		expectedNormalizedText string
	}{
		"MentionByID": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "<@UBOT> how are you?"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "how are you?",
		},
		"MentionByIDWithColon": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "<@UBOT>: how are you?"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "how are you?",
		},
		"MentionByName": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "@parsley hi"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "hi",
		},
		"MultilineMention": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "<@UBOT> first\nsecond"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "first\nsecond",
		},
		"BareMention": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "<@UBOT>"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "",
		},
		"MentionInTheMiddle": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "hey <@UBOT> hi"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "hey hi",
		},
		"MentionAtTheEnd": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "thanks <@UBOT>"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "thanks",
		},
		"BareMentionByName": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "@parsley"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "",
		},
		"MentionByNameWithColon": {
			msg:                    slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "@parsley: hi"},
			expectedOk:             true,
			expectedType:           parsley.DirectMention,
			expectedNormalizedText: "hi",
		},
		"NameWithoutAt": {
			msg:        slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "parsley is slow today"},
			expectedOk: false,
		},
		"NameAsPrefixOfAnotherName": {
			msg:        slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "@parsleyfan hi"},
			expectedOk: false,
		},
		"MentionOfSomeoneElse": {
			msg:        slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "<@UOTHER> hi"},
			expectedOk: false,
		},
		"RegularConversation": {
			msg:        slack.Msg{Type: "message", Channel: "CGENERAL", User: "U1", Text: "I like parsley"},
			expectedOk: false,
		},
		"DirectMessage": {
			msg:                    slack.Msg{Type: "message", Channel: "DPRIVATE", User: "U1", Text: "!John went to Paris"},
			expectedOk:             true,
			expectedType:           parsley.DirectMessage,
			expectedNormalizedText: "!John went to Paris",
		},
		"DirectMessageWithMention": {
			msg:                    slack.Msg{Type: "message", Channel: "DPRIVATE", User: "U1", Text: "<@UBOT> John went to Paris"},
			expectedOk:             true,
			expectedType:           parsley.DirectMessage,
			expectedNormalizedText: "John went to Paris",
		},
		"DirectMessageWithShortFormAfterMention": {
			msg:                    slack.Msg{Type: "message", Channel: "DPRIVATE", User: "U1", Text: "<@UBOT> ! John"},
			expectedOk:             true,
			expectedType:           parsley.DirectMessage,
			expectedNormalizedText: "! John",
		},
		"MessageFromSelf": {
			msg:        slack.Msg{Type: "message", Channel: "DPRIVATE", User: "UBOT", Text: "hello"},
			expectedOk: false,
		},
		"MessageFromSelfBot": {
			msg:        slack.Msg{Type: "message", Channel: "DPRIVATE", BotID: "BBOT", Text: "hello"},
			expectedOk: false,
		},
		"ReplyAcknowledgement": {
			msg:        slack.Msg{Type: "message", Channel: "DPRIVATE", User: "U1", Text: "hello", ReplyTo: 1},
			expectedOk: false,
		},
		"ChangedMessage": {
			msg:        slack.Msg{Type: "message", SubType: "message_changed", Channel: "DPRIVATE", User: "U1", Text: "hello"},
			expectedOk: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, ok := ec.ClassifyMessage(tc.msg)

			assert.Equal(t, tc.expectedOk, ok)
			if tc.expectedOk {
				assert.Equal(t, tc.expectedType, e.Type)
				assert.Equal(t, tc.expectedNormalizedText, e.NormalizedText)
				assert.Equal(t, tc.msg, e.Msg)
			}
		})
	}
}

func TestClassifyPin(t *testing.T) {
	ec := parsley.NewEventClassifier(parsley.Identity{ID: "UBOT", Name: "parsley"})

	e := ec.ClassifyPin(slack.PinAddedEvent{Type: "pin_added", Channel: "CGENERAL", User: "U1", EventTimestamp: "1546833211.036900"})

	assert.Equal(t, parsley.PinAdded, e.Type)
	assert.Equal(t, "", e.NormalizedText)
	assert.Equal(t, "CGENERAL", e.Channel)
	assert.Equal(t, "U1", e.User)
	assert.Equal(t, "1546833211.036900", e.Timestamp)
}
