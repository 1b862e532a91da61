// Package plugin provides a fluent API for creating parsley plugins out of actions built with
// github.com/alexandre-normand/parsley/actions
package plugin

import (
	"github.com/alexandre-normand/parsley"
)

// PluginBuilder holds a plugin to build
type PluginBuilder struct {
	plugin *parsley.Plugin
}

// New creates a new PluginBuilder with a plugin with the given name and empty set of actions
func New(name string) (pb *PluginBuilder) {
	pb = new(PluginBuilder)
	pb.plugin = new(parsley.Plugin)
	pb.plugin.Name = name
	pb.plugin.Actions = make([]parsley.ActionDefinition, 0)
	pb.plugin.ScheduledActions = make([]parsley.ScheduledActionDefinition, 0)

	return pb
}

// WithAction adds an action to the plugin. Actions are evaluated in the order they are added
func (pb *PluginBuilder) WithAction(action parsley.ActionDefinition) *PluginBuilder {
	pb.plugin.Actions = append(pb.plugin.Actions, action)
	return pb
}

// WithScheduledAction adds a scheduled action to the plugin
func (pb *PluginBuilder) WithScheduledAction(scheduledAction parsley.ScheduledActionDefinition) *PluginBuilder {
	pb.plugin.ScheduledActions = append(pb.plugin.ScheduledActions, scheduledAction)
	return pb
}

// Build returns the created Plugin instance
func (pb *PluginBuilder) Build() (p *parsley.Plugin) {
	return pb.plugin
}
