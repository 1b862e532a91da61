// Package config provides the configuration keys, defaults and helpers used to set up a parsley instance
// and its plugins. Configuration is held in a viper instance so that values can come from a configuration
// file, the environment or be set explicitly
package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

// PluginConfig holds the configuration of a single plugin. It is the sub-tree found under plugins.<pluginName>
type PluginConfig = viper.Viper

// Configuration keys
const (
	TokenKey                              = "token"                                         // Slack bot token, string value
	DebugKey                              = "debug"                                         // Debug mode, boolean value
	TimeLocationKey                       = "timeLocation"                                  // Time location used by scheduled actions, string value (i.e. "America/Los_Angeles")
	UserInfoCacheSizeKey                  = "userInfoCacheSize"                             // The number of entries to keep in the user info cache, int value. Defaults to no caching
	ThreadedRepliesKey                    = "replyBehavior.threadedReplies"                 // Whether answers are sent as threaded replies, boolean value
	BroadcastThreadedRepliesKey           = "replyBehavior.broadcast"                       // Whether threaded replies are also broadcast to the channel, boolean value
	MessageProcessingPartitionCount       = "advanced.messageProcessingPartitionCount"      // Number of event processing partitions, must be a power of two
	MessageProcessingBufferedMessageCount = "advanced.messageProcessingBufferedMessageCount" // Number of events buffered per partition
	PluginsKey                            = "plugins"                                       // Root of all plugin configurations
)

// EnvPrefix is the prefix of the environment variables read by instances set up with WithEnv
const EnvPrefix = "PARSLEY"

var envKeyReplacer = strings.NewReplacer(".", "_")

// Default values
const (
	defaultTimeLocation                          = "Local"
	defaultUserInfoCacheSize                     = 0
	defaultMessageProcessingPartitionCount       = 16
	defaultMessageProcessingBufferedMessageCount = 10
)

// NewViperWithDefaults creates a new viper instance with all parsley defaults set
func NewViperWithDefaults() (v *viper.Viper) {
	return LayerConfigWithDefaults(viper.New())
}

// LayerConfigWithDefaults sets the parsley defaults on an existing viper instance. Values already set
// on the instance take precedence over those defaults
func LayerConfigWithDefaults(v *viper.Viper) (lv *viper.Viper) {
	v.SetDefault(DebugKey, false)
	v.SetDefault(TimeLocationKey, defaultTimeLocation)
	v.SetDefault(UserInfoCacheSizeKey, defaultUserInfoCacheSize)
	v.SetDefault(ThreadedRepliesKey, false)
	v.SetDefault(BroadcastThreadedRepliesKey, false)
	v.SetDefault(MessageProcessingPartitionCount, defaultMessageProcessingPartitionCount)
	v.SetDefault(MessageProcessingBufferedMessageCount, defaultMessageProcessingBufferedMessageCount)

	return v
}

// WithEnv makes every configuration value overridable by an environment variable named after its key with
// EnvPrefix, i.e. PARSLEY_REPLYBEHAVIOR_THREADEDREPLIES or PARSLEY_PLUGINS_NLP_SERVERURL
func WithEnv(v *viper.Viper) (ev *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	return v
}

// GetTimeLocation returns the time location configured under TimeLocationKey
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	return time.LoadLocation(v.GetString(TimeLocationKey))
}

// GetPluginConfig returns the configuration of the plugin with the given name or an error if no configuration
// exists for it. The plugin configuration reads the same environment variables as v
func GetPluginConfig(v *viper.Viper, name string) (pc *PluginConfig, err error) {
	key := PluginsKey + "." + name
	pc = v.Sub(key)
	if pc == nil {
		return nil, fmt.Errorf("Missing plugin configuration for plugin [%s] at [%s]", name, key)
	}

	return pc, nil
}

// GetPluginConfigOrEmpty returns the configuration of the plugin with the given name or an empty configuration
// when none exists. This is useful for plugins that can run entirely on defaults. When v reads the environment,
// so does the empty configuration
func GetPluginConfigOrEmpty(v *viper.Viper, name string) (pc *PluginConfig) {
	pc, err := GetPluginConfig(v, name)
	if err == nil {
		return pc
	}

	pc = viper.New()
	if prefix := v.GetEnvPrefix(); prefix != "" {
		pc.SetEnvPrefix(strings.Join([]string{prefix, PluginsKey, name}, "_"))
		pc.SetEnvKeyReplacer(envKeyReplacer)
		pc.AutomaticEnv()
	}

	return pc
}
