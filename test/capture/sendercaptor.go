// Package capture provides test doubles that record what a plugin sends
package capture

import (
	"github.com/slack-go/slack"
	"sync"
)

// RealTimeSenderCaptor holds messages sent to it keyed by channel ID. It implements parsley.RealTimeMessageSender
type RealTimeSenderCaptor struct {
	sync.Mutex
	SentMessages map[string][]string
}

// NewRealTimeSender returns a new initialized RealTimeSenderCaptor instance
func NewRealTimeSender() (rtms *RealTimeSenderCaptor) {
	rtms = new(RealTimeSenderCaptor)
	rtms.SentMessages = make(map[string][]string)

	return rtms
}

// NewOutgoingMessage returns an OutgoingMessage with only the channel ID and text set on it. Nothing is captured
// until the message is sent
func (rtms *RealTimeSenderCaptor) NewOutgoingMessage(text string, channelID string, options ...slack.RTMsgOption) *slack.OutgoingMessage {
	return &slack.OutgoingMessage{Type: "message", Channel: channelID, Text: text}
}

// SendMessage captures the details of a sent message (the message text and the channel it's sent to)
func (rtms *RealTimeSenderCaptor) SendMessage(outMsg *slack.OutgoingMessage) {
	rtms.Lock()
	defer rtms.Unlock()

	rtms.SentMessages[outMsg.Channel] = append(rtms.SentMessages[outMsg.Channel], outMsg.Text)
}

// Messages returns a copy of the messages captured so far, keyed by channel ID
func (rtms *RealTimeSenderCaptor) Messages() (sent map[string][]string) {
	rtms.Lock()
	defer rtms.Unlock()

	sent = make(map[string][]string)
	for channelID, msgs := range rtms.SentMessages {
		sent[channelID] = append([]string(nil), msgs...)
	}

	return sent
}
