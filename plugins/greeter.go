// Package plugins provides the plugins parsley runs with: a greeter, the natural language annotation
// actions, a pin acknowledger and an optional heap reporter
package plugins

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/actions"
	"github.com/alexandre-normand/parsley/plugin"
)

const (
	// GreeterPluginName holds identifying name for the greeter plugin
	GreeterPluginName = "greeter"
)

// NewGreeter creates a new instance of the greeter plugin. It introduces the bot whenever it's mentioned
func NewGreeter() (p *parsley.Plugin) {
	p = plugin.New(GreeterPluginName).
		WithAction(actions.New(parsley.DirectMention).
			WithUsage("@<bot> <anything>").
			WithDescription("Introduces itself").
			WithAnswerer(func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
				return greet(p.Self)
			}).
			Build()).
		Build()

	return p
}

func greet(self parsley.Identity) (a *parsley.Answer, err error) {
	if self.Name == "" {
		return nil, fmt.Errorf("bot identity [%s] has no name to introduce itself with", self.ID)
	}

	return &parsley.Answer{Text: fmt.Sprintf("Hi, I am %s", self.Name)}, nil
}
