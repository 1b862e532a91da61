package parsley

import (
	"github.com/alexandre-normand/parsley/config"
	"github.com/spf13/viper"
	"io"
)

// Builder holds a parsley instance to build
type Builder struct {
	bot *Parsley
	err error
}

// PluginCreator is a function that creates a plugin from its configuration
type PluginCreator func(conf *config.PluginConfig) (p *Plugin, err error)

// CloserPluginCreator is a function that creates a plugin that needs to be closed on shutdown from its configuration
type CloserPluginCreator func(conf *config.PluginConfig) (c io.Closer, p *Plugin, err error)

// NewBot returns a new Builder used to set up a new parsley
func NewBot(name string, v *viper.Viper, options ...Option) (sb *Builder) {
	sb = new(Builder)
	sb.bot, sb.err = New(name, v, options...)

	return sb
}

// WithPlugin adds a plugin to the parsley instance
func (sb *Builder) WithPlugin(p *Plugin) *Builder {
	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithPluginErr adds a plugin that has a creation function returning (Plugin, error) to the parsley instance
func (sb *Builder) WithPluginErr(p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	return sb
}

// WithPluginCloserErr adds a plugin that has a creation function returning (io.Closer, Plugin, error) to the parsley instance
func (sb *Builder) WithPluginCloserErr(closer io.Closer, p *Plugin, err error) *Builder {
	if sb.err == nil && err != nil {
		sb.err = err
	}

	if sb.err != nil {
		return sb
	}

	sb.bot.RegisterPlugin(p)

	if closer != nil {
		sb.bot.closers = append(sb.bot.closers, closer)
	}

	return sb
}

// WithConfigurablePluginErr adds a plugin created from its configuration found under plugins.<name>. A missing configuration
// is an error
func (sb *Builder) WithConfigurablePluginErr(name string, newPlugin PluginCreator) *Builder {
	if sb.err != nil {
		return sb
	}

	pc, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.err = err
		return sb
	}

	return sb.WithPluginErr(newPlugin(pc))
}

// WithConfigurablePluginCloserErr adds a plugin that needs closing created from its configuration found under plugins.<name>. A
// missing configuration is an error
func (sb *Builder) WithConfigurablePluginCloserErr(name string, newPlugin CloserPluginCreator) *Builder {
	if sb.err != nil {
		return sb
	}

	pc, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.err = err
		return sb
	}

	return sb.WithPluginCloserErr(newPlugin(pc))
}

// WithOptionalConfigurablePluginErr adds a plugin created from its configuration found under plugins.<name> only if that
// configuration exists
func (sb *Builder) WithOptionalConfigurablePluginErr(name string, newPlugin PluginCreator) *Builder {
	if sb.err != nil {
		return sb
	}

	pc, err := config.GetPluginConfig(sb.bot.config, name)
	if err != nil {
		sb.bot.log.Debugf("Skipping plugin [%s]: %v\n", name, err)
		return sb
	}

	return sb.WithPluginErr(newPlugin(pc))
}

// Build returns the built parsley instance. If there was an error during
// setup, the error is returned along with a nil parsley
func (sb *Builder) Build() (p *Parsley, err error) {
	if sb.err != nil {
		return nil, sb.err
	}

	return sb.bot, sb.err
}
