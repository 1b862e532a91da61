package parsley

import (
	"fmt"
	"github.com/slack-go/slack"
	"regexp"
	"strings"
)

// EventType identifies the kind of incoming event an action can be triggered by
type EventType int

// Event types
const (
	// DirectMention is a message addressed to the bot by name (@bot) in a shared channel
	DirectMention EventType = iota + 1
	// DirectMessage is a private one-to-one message sent to the bot
	DirectMessage
	// PinAdded is an item pinned in a channel the bot is a member of
	PinAdded
)

// String returns the name of the event type
func (et EventType) String() string {
	switch et {
	case DirectMention:
		return "directMention"
	case DirectMessage:
		return "directMessage"
	case PinAdded:
		return "pinAdded"
	default:
		return fmt.Sprintf("unknown(%d)", int(et))
	}
}

// IncomingEvent holds an event delivered to actions. It embeds the slack message it was built from along with
// the event type and the normalized text. For direct mentions, the normalized text has the mention of the bot removed.
// For pin events, the channel, user and timestamp of the pin are set on the message and the text is empty
type IncomingEvent struct {
	Type EventType

	// NormalizedText is the text of the message with the bot mention prefix stripped
	NormalizedText string

	slack.Msg
}

// TextForm identifies how a direct message's text is handled
type TextForm int

// Text forms
const (
	// NoForm is text that triggers nothing (empty or a lone "!")
	NoForm TextForm = iota
	// ShortForm is text starting with "!" followed by content
	ShortForm
	// FullForm is any other non-empty text
	FullForm
)

const shortFormPrefix = "!"

// String returns the name of the text form
func (tf TextForm) String() string {
	switch tf {
	case ShortForm:
		return "short"
	case FullForm:
		return "full"
	default:
		return "none"
	}
}

// ClassifyText classifies text into exactly one TextForm and returns the content relevant to it: the text following
// the "!" for ShortForm and the whole text for FullForm
func ClassifyText(text string) (form TextForm, content string) {
	if strings.TrimSpace(text) == "" {
		return NoForm, ""
	}

	if strings.HasPrefix(text, shortFormPrefix) {
		content = strings.TrimPrefix(text, shortFormPrefix)
		if strings.TrimSpace(content) == "" {
			return NoForm, ""
		}

		return ShortForm, content
	}

	return FullForm, text
}

// EventClassifier turns slack messages into IncomingEvents from the point of view of a bot identity
type EventClassifier struct {
	self          Identity
	idMention     *regexp.Regexp
	leadingByName *regexp.Regexp
}

// NewEventClassifier returns a classifier that recognizes mentions of the given identity: <@ID> anywhere in the
// text or @name at the start of it
func NewEventClassifier(self Identity) (ec *EventClassifier) {
	ec = new(EventClassifier)
	ec.self = self
	ec.idMention = regexp.MustCompile(`\s*<@` + regexp.QuoteMeta(self.ID) + `>:?\s*`)

	if self.Name != "" {
		ec.leadingByName = regexp.MustCompile(`^\s*@` + regexp.QuoteMeta(self.Name) + `(?::\s*|\s+|$)`)
	}

	return ec
}

// stripMention returns the text with the mentions of "us" removed and true or the text unchanged and false if
// "we" aren't mentioned
func (ec *EventClassifier) stripMention(text string) (normalized string, mentioned bool) {
	if ec.leadingByName != nil {
		if loc := ec.leadingByName.FindStringIndex(text); loc != nil {
			return text[loc[1]:], true
		}
	}

	if ec.idMention.MatchString(text) {
		return strings.TrimSpace(ec.idMention.ReplaceAllString(text, " ")), true
	}

	return text, false
}

// ClassifyMessage returns the IncomingEvent for a message and true or false if the message isn't something actions
// are triggered by. The rules are the following:
// 	1. Messages sent by "us", replies acknowledgements and messages with a subtype (edits, deletes, joins, etc.) are ignored
// 	2. A message on a direct channel is a DirectMessage (with mentions of "us" stripped, if any)
// 	3. A message on a channel that mentions "us" (<@ID> anywhere or @name first) is a DirectMention
// 	4. Anything else is regular conversation and is ignored
func (ec *EventClassifier) ClassifyMessage(m slack.Msg) (e IncomingEvent, ok bool) {
	if m.ReplyTo > 0 || m.SubType != "" || m.Type != "message" {
		return e, false
	}

	if m.User == ec.self.ID || (ec.self.BotID != "" && m.BotID == ec.self.BotID) {
		return e, false
	}

	normalized, mentioned := ec.stripMention(m.Text)

	if isDirectChannel(m.Channel) {
		return IncomingEvent{Type: DirectMessage, NormalizedText: normalized, Msg: m}, true
	}

	if mentioned {
		return IncomingEvent{Type: DirectMention, NormalizedText: normalized, Msg: m}, true
	}

	return e, false
}

// ClassifyPin returns the IncomingEvent for a pin added event
func (ec *EventClassifier) ClassifyPin(p slack.PinAddedEvent) (e IncomingEvent) {
	m := slack.Msg{Type: p.Type, Channel: p.Channel, User: p.User, Timestamp: p.EventTimestamp}

	return IncomingEvent{Type: PinAdded, Msg: m}
}

// isDirectChannel returns true if the channel id is the one of a direct conversation (slack uses the D prefix for those)
func isDirectChannel(channelID string) bool {
	return strings.HasPrefix(channelID, "D")
}
