// Copyright (C) 2025 Tim Bastin, l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/l3montree-dev/cdx2cyto/cmd/cdx2cyto/config"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

const (
	defaultConfigFilename = ".cdx2cyto"
	envPrefix             = "CDX2CYTO"
)

func NewRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		SilenceUsage:      true,
		Use:               "cdx2cyto [flags] <input-file> <output-file>",
		Short:             "Convert a CycloneDX SBOM into a Cytoscape.js graph",
		Version:           version,
		DisableAutoGenTag: true,
		Long: `Convert a CycloneDX SBOM into a Cytoscape.js graph

cdx2cyto reads a CycloneDX SBOM (JSON or XML) and writes the Cytoscape.js
elements JSON of its component dependency graph. Vulnerabilities and licenses
can be added as nodes of their own. Component severities are propagated from
vulnerable components up to everything depending on them.

If no flags are given, only components and their dependencies are included.
Configuration can be provided via a ./.cdx2cyto config file or environment
variables (prefix CDX2CYTO_).`,
		Example: `  # Components and dependencies only
  cdx2cyto sbom.json graph.json

  # Include vulnerabilities and licenses
  cdx2cyto --vulns --lic sbom.json graph.json

  # Only vulnerabilities and the components they affect
  cdx2cyto --only-vdr sbom.cdx.xml graph.json`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				cmd.Usage() // nolint: errcheck
				return fmt.Errorf("expected <input-file> and <output-file>, got %d argument(s)", len(args))
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cmd.Flags().GetString("logLevel")
			if err != nil {
				return err
			}

			switch level {
			case "debug":
				initLogger(slog.LevelDebug)
			case "info":
				initLogger(slog.LevelInfo)
			case "warn":
				initLogger(slog.LevelWarn)
			case "error":
				initLogger(slog.LevelError)
			default:
				initLogger(slog.LevelInfo)
			}

			return initializeConfig(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ParseConfig(v, args)
			if err != nil {
				return err
			}
			return runConvert(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.PersistentFlags().StringP("logLevel", "l", "info", "Set the log level. Options: debug, info, warn, error")
	cmd.PersistentFlags().String("config", "", "Path to a config file. Defaults to ./.cdx2cyto or /etc/cdx2cyto/.cdx2cyto")

	cmd.Flags().Bool("vulns", false, "Include vulnerability nodes and edges")
	cmd.Flags().Bool("lic", false, "Include license nodes and edges")
	cmd.Flags().Bool("showGroupsInNodeLabels", false, "Include group names in node labels")
	cmd.Flags().Bool("only-vex", false, "Only output vulnerabilities and their affects edges (VEX)")
	cmd.Flags().Bool("only-vdr", false, "Only output vulnerabilities and the components they affect (VDR)")
	cmd.Flags().Bool("groupParents", false, "Nest components into compound nodes per group")
	cmd.Flags().String("format", "auto", "Input format. Options: auto, json, xml. auto picks xml for .xml files")
	cmd.MarkFlagsMutuallyExclusive("only-vex", "only-vdr")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cdx2cyto\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Commit:     %s\n", commit)
			fmt.Fprintf(out, "Built:      %s\n", date)
			fmt.Fprintf(out, "Built by:   %s\n", builtBy)
		},
	}
}

func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// initLogger initializes the default logger with a tint handler on stderr.
func initLogger(level slog.Leveler) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	))
}

func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(defaultConfigFilename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cdx2cyto/")
	}

	// a missing config file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "could not read config file")
		}
		slog.Debug("no config file found")
	}

	v.SetEnvPrefix(envPrefix)
	// --only-vex is read from CDX2CYTO_ONLY_VEX
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	bindFlags(cmd, v)
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(configName) {
			val := v.Get(configName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		if err := v.BindPFlag(configName, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
