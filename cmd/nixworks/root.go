package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nixworks/nixworks"
	"github.com/nixworks/nixworks/format"
)

type option struct {
	name, usage, shorthand string
	defaultVal             any
	flagsets               []*pflag.FlagSet
}

// app holds the configuration and logger shared by the commands.
type app struct {
	cfg    *viper.Viper
	logger *logrus.Logger
}

// newRootCmd builds the command tree with its flags bound to a fresh
// configuration.
func newRootCmd() *cobra.Command {
	a := &app{cfg: viper.New(), logger: logrus.New()}

	root := &cobra.Command{
		Use:   "nixworks",
		Short: "Convert EEG recordings to and from NIX files.",
		Long: `nixworks converts EDF and BrainVision recordings into NIX container files
and back. Use the subcommands specified below.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'NIXWORKS_var' where 'var' is
the name of the flag in upper case with dashes replaced by underscores.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	mne2nix := &cobra.Command{
		Use:   "mne2nix <datafile> [montage]",
		Short: "Convert an EDF or BrainVision recording to NIX.",
		Long: `mne2nix reads an EDF (.edf) or BrainVision (.vhdr) recording and writes it
to a NIX file next to it, with the extension replaced by .nix. An optional
montage file (.sfp) provides electrode positions.`,
		Args:              cobra.RangeArgs(1, 2),
		DisableAutoGenTag: true,
		RunE:              a.runMNE2NIX,
	}

	nix2mne := &cobra.Command{
		Use:   "nix2mne <nixfile>",
		Short: "Export a NIX file written by mne2nix as BrainVision.",
		Long: `nix2mne imports a NIX file created by mne2nix and writes the recording as a
BrainVision header, marker and data file next to it.`,
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE:              a.runNIX2MNE,
	}

	info := &cobra.Command{
		Use:               "info <nixfile>",
		Short:             "Print the metadata of a NIX file as YAML.",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE:              a.runInfo,
	}

	root.AddCommand(mne2nix, nix2mne, info)

	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose enables debug logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{root.PersistentFlags()},
		},
		{
			name: "split-data",
			usage: `
              split-data stores each channel of raw data in its own
              DataArray.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{mne2nix.Flags()},
		},
		{
			name: "split-stimuli",
			usage: `
              split-stimuli stores each stimulus type (identified by its
              label) in its own MultiTag.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{mne2nix.Flags()},
		},
		{
			name: "compression",
			usage: `
              compression selects the payload codec of the NIX file:
              none, zstd, s2, lz4 or deflate.`,
			defaultVal: strings.ToLower(format.CompressionDeflate.String()),
			flagsets:   []*pflag.FlagSet{mne2nix.Flags()},
		},
	}

	a.cfg.SetEnvPrefix("NIXWORKS")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	for _, opt := range options {
		for i, set := range opt.flagsets {
			if i != 0 {
				set.AddFlag(opt.flagsets[0].Lookup(opt.name))
				continue
			}
			switch v := opt.defaultVal.(type) {
			case string:
				set.StringP(opt.name, opt.shorthand, v, opt.usage)
			case bool:
				set.BoolP(opt.name, opt.shorthand, v, opt.usage)
			default:
				panic(fmt.Sprintf("invalid default for option %q: %T", opt.name, v))
			}
			if err := a.cfg.BindPFlag(opt.name, set.Lookup(opt.name)); err != nil {
				panic(err)
			}
		}
	}

	return root
}

// setup reads the configuration file, if there is one, and configures
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	if path := a.cfg.GetString("config"); path != "" {
		a.cfg.SetConfigFile(path)
		if err := a.cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("nixworks: problem reading configuration file: %w", err)
		}
	}

	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	a.logger.SetLevel(logrus.InfoLevel)
	if a.cfg.GetBool("verbose") {
		a.logger.SetLevel(logrus.DebugLevel)
	}

	return nil
}

// convertOptions translates the configuration into conversion options.
func (a *app) convertOptions() ([]nixworks.Option, error) {
	name := a.cfg.GetString("compression")
	comp, ok := format.ParseCompression(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("nixworks: unknown compression %q", name)
	}

	return []nixworks.Option{
		nixworks.WithSplitData(a.cfg.GetBool("split-data")),
		nixworks.WithSplitStimuli(a.cfg.GetBool("split-stimuli")),
		nixworks.WithCompression(comp),
		nixworks.WithLogger(a.logger),
	}, nil
}
