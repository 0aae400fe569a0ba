package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/msalah0e/relgraph/internal/config"
	"github.com/msalah0e/relgraph/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.Path()
			}
			_, err := os.Stat(path)
			exists := err == nil

			ui.Banner("configuration")
			fmt.Printf("  %s  %s %s\n", ui.Brand.Sprintf("%-12s", "File"), path, ui.StatusIcon(exists))
			fmt.Printf("  %s  %s\n", ui.Brand.Sprintf("%-12s", "Data"), a.location())
			fmt.Printf("  %s  %d–%d\n", ui.Brand.Sprintf("%-12s", "Horizon"), a.cfg.Years.Min, a.cfg.Years.Max)
			fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-12s", "Categories"), len(a.cfg.Relations.Colors))
			fmt.Printf("  %s  %.0f×%.0f\n", ui.Brand.Sprintf("%-12s", "Canvas"), a.cfg.Layout.Width, a.cfg.Layout.Height)
			if !exists {
				fmt.Println()
				fmt.Printf("  %s\n", ui.Subtle.Sprint("Run `relgraph config init` to write the defaults"))
			}
			return nil
		},
	}

	cmd.AddCommand(
		configInitCmd(a),
		configShowCmd(a),
		configPathCmd(a),
	)
	return cmd
}

func configInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.Path()
			}
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Printf("  %s %s already exists %s\n", ui.WarnIcon(), path, ui.Subtle.Sprint("(use --force to overwrite)"))
				return nil
			}
			if err := config.SaveFile(path, config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func configShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(a.cfg)
		},
	}
}

func configPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			path := a.configPath
			if path == "" {
				path = config.Path()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	}
}
