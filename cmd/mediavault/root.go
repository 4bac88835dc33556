// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MediaVault Contributors

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mediavault-dev/mediavault/internal/config"
	mverr "github.com/mediavault-dev/mediavault/pkg/errors"
)

// NewRootCmd creates the root mediavault command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediavault",
		Short:         "MediaVault — media asset store with similarity search",
		Long:          "MediaVault stores generated images and videos with CLIP embeddings and answers similarity, theme, and attribute queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags — these map to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("data-dir", "", "path to the asset store directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Register subcommands
	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newSearchCmd(),
		newSimilarCmd(),
		newRateCmd(),
		newAssignCmd(),
		newExportCmd(),
		newStatsCmd(),
		newBackupCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return mverr.Errorf(mverr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// Auto-discover mediavault.yaml from standard locations.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./mediavault binary in the project root.
		v.SetConfigName("mediavault")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mediavault")
		v.AddConfigPath("/etc/mediavault")
		// No config file is fine — defaults and env vars still apply.
		// Parse or permission errors must surface.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return mverr.Errorf(mverr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
			// No config found anywhere — bootstrap a default to ~/.config/mediavault/.
			if path := config.BootstrapConfig(); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return mverr.Errorf(mverr.CodeConfigLoadReadFailure, "reading bootstrapped config: %w", err)
				}
			}
		}
	}

	// Bind persistent flags to viper keys.
	if err := v.BindPFlag("storage.dir", cmd.Root().PersistentFlags().Lookup("data-dir")); err != nil {
		return mverr.Errorf(mverr.CodeCLISetupFailure, "binding data-dir flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return mverr.Errorf(mverr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	return nil
}
