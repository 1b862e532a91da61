package main

import (
	"context"
	"fmt"
	"github.com/alexandre-normand/parsley"
	"github.com/alexandre-normand/parsley/config"
	"github.com/alexandre-normand/parsley/plugins"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
)

const (
	name              = "parsley"
	defaultConfigPath = "~/.parsley.yaml"
)

// options holds the values of the persistent flags
type options struct {
	configPath string
	debug      bool
}

func newParsleyCommand() *cobra.Command {
	opts := new(options)

	cmd := &cobra.Command{
		Use:           name,
		Short:         "A slack bot that replies with natural language annotations of what it's told",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newRunCommand(opts),
		newAnnotateCommand(opts),
		newTagCommand(opts),
		newVersionCommand(),
	)

	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connects to slack and answers mentions, direct messages and pins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(opts, true)
			if err != nil {
				return err
			}

			if v.GetString(config.TokenKey) == "" {
				return fmt.Errorf("Missing [%s] configuration: set it in [%s] or with %s_TOKEN", config.TokenKey, opts.configPath, config.EnvPrefix)
			}

			logHeapUtilization(log.New(os.Stdout, fmt.Sprintf("%s: ", name), log.LstdFlags))

			bot, err := parsley.NewBot(name, v).
				WithPlugin(plugins.NewGreeter()).
				WithPluginCloserErr(plugins.NewNLP(config.GetPluginConfigOrEmpty(v, plugins.NLPPluginName))).
				WithPlugin(plugins.NewPinAcknowledger()).
				WithOptionalConfigurablePluginErr(plugins.HeapReporterPluginName, plugins.NewHeapReporter).
				Build()
			if err != nil {
				return err
			}
			defer bot.Close()

			return bot.Run()
		},
	}
}

func newAnnotateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate <text>",
		Short: "Prints the tokens, parse trees, dependency graphs and coreference chains of the text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithNLP(cmd, opts, func(ctx context.Context, n *plugins.NLP, out io.Writer) error {
				answer, err := n.Annotate(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}

				fmt.Fprintln(out, answer)
				return nil
			})
		},
	}
}

func newTagCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tag <text>",
		Short: "Prints the named entity tag of every token of the text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithNLP(cmd, opts, func(ctx context.Context, n *plugins.NLP, out io.Writer) error {
				answer, err := n.Tag(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}

				fmt.Fprintln(out, answer)
				return nil
			})
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of parsley",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, parsley.VERSION)
		},
	}
}

// runWithNLP sets up the nlp plugin from the configuration and hands it to f
func runWithNLP(cmd *cobra.Command, opts *options, f func(ctx context.Context, n *plugins.NLP, out io.Writer) error) (err error) {
	v, err := loadConfig(opts, false)
	if err != nil {
		return err
	}

	closer, n, err := plugins.NewNLPFromConfig(config.GetPluginConfigOrEmpty(v, plugins.NLPPluginName))
	if err != nil {
		return err
	}
	defer closer.Close()

	return f(cmd.Context(), n, cmd.OutOrStdout())
}

// loadConfig layers the configuration file, the PARSLEY_ environment variables and the flags over the parsley
// defaults. A missing configuration file is an error only when required
func loadConfig(opts *options, required bool) (v *viper.Viper, err error) {
	v = config.WithEnv(config.NewViperWithDefaults())

	path, err := homedir.Expand(opts.configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to expand config path [%s]", opts.configPath)
	}

	v.SetConfigFile(path)
	if err = v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); required || !os.IsNotExist(statErr) {
			return nil, errors.Wrapf(err, "unable to read config from [%s]", path)
		}
	}

	if opts.debug {
		v.Set(config.DebugKey, true)
	}

	return v, nil
}

func logHeapUtilization(logger *log.Logger) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	for _, line := range strings.Split(plugins.FormatHeapUtilization(ms), "\n") {
		logger.Println(line)
	}
}
