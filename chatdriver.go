package parsley

import (
	"github.com/slack-go/slack"
)

// RealTimeMessageSender is implemented by any value that has the NewOutgoingMessage method.
// The main purpose is a slight decoupling of the slack.RTM in order for plugins to be able to write
// tests more easily if all they do is send new messages on a channel (i.e. from a scheduled action)
type RealTimeMessageSender interface {
	// NewOutgoingMessage is the function that creates a new message to send. See https://godoc.org/github.com/slack-go/slack#RTM.NewOutgoingMessage for more details
	NewOutgoingMessage(text string, channelID string, options ...slack.RTMsgOption) *slack.OutgoingMessage

	// SendMessage is the function that sends a new real time message. See https://godoc.org/github.com/slack-go/slack#RTM.SendMessage for more details
	SendMessage(outMsg *slack.OutgoingMessage)
}

// chatDriver is implemented by any value that has the SendMessage method. Note that the difference with the RealTimeMessageSender
// is that this one is synchronous and returns the information identifying the sent message.
//
// slack.Client implements this interface
type chatDriver interface {
	SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}
