// Package assertplugin provides testing functions to validate a plugin's overall functionality.
// This package is designed to play well but not require the assertanswer package for validation
// of answers
//
// Messages are classified the way a running bot classifies them and only the first action
// triggered by an event answers it. Users should take special care to include <@botUserID> with the
// same botUserID with which the plugin driver has been instantiated in the message text inputs to test
// mentions (or use a channel id that starts with D for direct message testing)
//
// Example:
//    func TestPlugin(t *testing.T) {
//        assertplugin := assertplugin.New(t, "bot", assertplugin.OptionBotName("parsley"))
//        greeter := plugins.NewGreeter()
//
//        assertplugin.Answers(&greeter.Plugin, &slack.Msg{Channel: "C1", Text: "<@bot> hello"}, func(t *testing.T, answers []*parsley.Answer) bool {
//            return assert.Len(t, answers, 1) && assertanswer.HasText(t, answers[0], "Hi, I am parsley")
//        })
//    }
package assertplugin // import "github.com/alexandre-normand/parsley/test/assertplugin"
