package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/lixenwraith/flagconf"
	"github.com/spf13/cobra"
)

// formatEnv prints overridden keys as a dotenv file
const formatEnv = "env"

func newMergeCmd(a *app) *cobra.Command {
	var (
		format    string
		envPrefix string
		envFile   string
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "merge [file]",
		Short: "Merge -c options over a configuration file and print the result",
		Long: `merge reads a TOML, JSON or YAML file, takes every key in it as a default,
layers environment variables (when --env-prefix is set) and the -c options on top,
and prints the merged configuration. Without a file argument, config.toml, config.json
or config.yaml is looked up in the home directory.`,
		Example: `  flagconf merge config.toml -c server.port=9000
  flagconf merge settings.yaml --env-prefix APP_ -c debug=true --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.resolveConfigFile(args)
			if err != nil {
				return err
			}

			var defaults map[string]any
			if path != "" {
				defaults, err = flagconf.ReadFile(path)
				if err != nil {
					return err
				}
				a.logger.Debug().Str("file", path).Msg("loaded configuration file")
			}

			opts := flagconf.DefaultLoadOptions()
			opts.RegisterOverlay = !strict
			opts.EnvFile = envFile
			if envPrefix == "" && envFile == "" {
				opts.Sources = []flagconf.Source{flagconf.SourceCLI, flagconf.SourceDefault}
			}
			opts.EnvPrefix = envPrefix

			cfg := flagconf.NewWithOptions(opts)
			cfg.SetLogger(a.logger)
			if err := cfg.RegisterMap("", defaults); err != nil {
				return fmt.Errorf("failed to register file keys: %w", err)
			}
			if err := cfg.LoadWithOptions("", a.overlay(), opts); err != nil {
				return err
			}

			if format == formatEnv {
				return writeEnv(cmd.OutOrStdout(), cfg.ExportEnv(envPrefix))
			}
			return cfg.Encode(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", flagconf.FormatTOML, "output format: toml, json, yaml or env (overridden keys only)")
	cmd.Flags().StringVar(&envPrefix, "env-prefix", "", "also read PREFIX_KEY_PATH environment variables")
	cmd.Flags().StringVar(&envFile, "env-file", "", "dotenv file consulted after the environment")
	cmd.Flags().BoolVar(&strict, "strict", false, "ignore -c keys that are not in the file")
	return cmd
}

// resolveConfigFile returns the explicit file argument or a file discovered in the home directory
func (a *app) resolveConfigFile(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	home, err := a.home.Get()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	opts := flagconf.DefaultDiscoveryOptions("config")
	opts.EnvVar = ""
	opts.Paths = []string{home}
	opts.UseCurrentDir = false
	opts.UseXDG = false

	path := flagconf.DiscoverFile(opts)
	if path == "" {
		a.logger.Info().Str("home", filepath.Clean(home)).Msg("no configuration file found, merging over an empty configuration")
	}
	return path, nil
}

func writeEnv(w io.Writer, exports map[string]string) error {
	if len(exports) == 0 {
		return nil
	}
	data, err := godotenv.Marshal(exports)
	if err != nil {
		return fmt.Errorf("failed to render env output: %w", err)
	}
	_, err = fmt.Fprintln(w, data)
	return err
}
