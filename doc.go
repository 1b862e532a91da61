/*
Package parsley provides the building blocks of a slack bot that answers with natural language
annotations of what it's told.

It is extendable via plugins that combine actions triggered by direct mentions, direct messages and
pinned items as well as scheduled actions. For every event, the first action (in plugin registration
order and then action declaration order) whose event types and matcher accept it is the one that answers.

Direct message text is classified by ClassifyText into exactly one of:
 - ShortForm: "!" followed by some text (i.e. "!John went to Paris")
 - FullForm: any other non-empty text
 - NoForm: empty text or a lone "!"

Plugins also have access to services injected on startup by parsley such as:
 - UserInfoFinder: To query user info
 - SLogger: To log debug/info statements
 - RealTimeMessageSender: To send unmanaged real time messages outside the normal reaction flow (i.e. for sending messages via a scheduled action)
 - Self: The identity of the bot user, resolved once on startup

Example code (see cmd/parsley for the complete version):

	package main

	import (
		"github.com/alexandre-normand/parsley"
		"github.com/alexandre-normand/parsley/config"
		"github.com/alexandre-normand/parsley/plugins"
	)

	func main() {
		// TODO: Parse command-line and initialize viper

		bot, err := parsley.NewBot("parsley", v).
			WithPlugin(plugins.NewGreeter()).
			WithPluginCloserErr(plugins.NewNLP(config.GetPluginConfigOrEmpty(v, plugins.NLPPluginName))).
			WithPlugin(plugins.NewPinAcknowledger()).
			Build()
		if err != nil {
			log.Fatal(err)
		}
		defer bot.Close()

		err = bot.Run()
		if err != nil {
			log.Fatal(err)
		}
	}
*/
package parsley
