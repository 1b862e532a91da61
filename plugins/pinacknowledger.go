package plugins

import (
	"context"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/actions"
	"github.com/alexandre-normand/parsley/plugin"
)

const (
	// PinAcknowledgerPluginName holds identifying name for the pin acknowledger plugin
	PinAcknowledgerPluginName = "pinAcknowledger"

	pinAcknowledgement = "Thanks for the pin! You can find all pinned items under channel details."
)

// NewPinAcknowledger creates a new instance of the pin acknowledger plugin
func NewPinAcknowledger() (p *parsley.Plugin) {
	p = plugin.New(PinAcknowledgerPluginName).
		WithAction(actions.New(parsley.PinAdded).
			Hidden().
			WithDescription("Thanks whoever pins an item").
			WithAnswerer(func(ctx context.Context, e *parsley.IncomingEvent) (*parsley.Answer, error) {
				return &parsley.Answer{Text: pinAcknowledgement}, nil
			}).
			Build()).
		Build()

	return p
}
