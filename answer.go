package parsley

import (
	"github.com/slack-go/slack"
	"strconv"
)

const (
	// ThreadedReplyOpt is the name of the option indicating a threaded-reply answer
	ThreadedReplyOpt = "threadedReply"
	// BroadcastOpt is the name of the option indicating a broadcast answer
	BroadcastOpt = "broadcast"
)

// Answer holds data of an Action's Answer: namely, its text and options
// to use when delivering it
type Answer struct {
	Text string

	// Options to apply when sending a message
	Options []AnswerOption
}

// AnswerOption defines a function applied to Answers
type AnswerOption func(sendOpts map[string]string)

// AnswerInThread sets threaded replying
func AnswerInThread() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
	}
}

// AnswerInThreadWithBroadcast sets threaded replying with broadcast enabled
func AnswerInThreadWithBroadcast() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[BroadcastOpt] = "true"
	}
}

// AnswerWithoutThreading sets an answer to threading (and implicitly, broadcast) disabled
func AnswerWithoutThreading() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "false"
	}
}

// ApplyAnswerOpts applies answering options to build the send configuration
func ApplyAnswerOpts(opts ...AnswerOption) (sendOptions map[string]string) {
	sendOptions = make(map[string]string)
	for _, opt := range opts {
		opt(sendOptions)
	}

	return sendOptions
}

// newSendOptions builds the slack message options for an answer to an incoming event. Threading and broadcast
// default to the instance configuration and are overridden by the answer's options
func newSendOptions(self Identity, threadedReplies bool, broadcast bool, e *IncomingEvent, text string, answerOpts map[string]string) (options []slack.MsgOption) {
	options = []slack.MsgOption{slack.MsgOptionText(text, false), slack.MsgOptionUser(self.ID), slack.MsgOptionAsUser(true)}

	if v, ok := answerOpts[ThreadedReplyOpt]; ok {
		threadedReplies, _ = strconv.ParseBool(v)
	}

	if v, ok := answerOpts[BroadcastOpt]; ok {
		broadcast, _ = strconv.ParseBool(v)
	}

	if threadedReplies {
		threadTS := e.Timestamp
		if ts, inThread := resolveThreadTimestamp(&e.Msg); inThread {
			threadTS = ts
		}

		options = append(options, slack.MsgOptionTS(threadTS))

		if broadcast {
			options = append(options, slack.MsgOptionBroadcast())
		}
	}

	return options
}

// resolveThreadTimestamp returns the timestamp of the thread a message is in and true, or false if the message
// isn't part of a thread
func resolveThreadTimestamp(m *slack.Msg) (threadTimestamp string, inThread bool) {
	if m.ThreadTimestamp != "" {
		return m.ThreadTimestamp, true
	}

	return "", false
}
