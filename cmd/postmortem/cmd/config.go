package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/postmortem/internal/config"
)

var (
	configInitForce bool
	configInitLocal bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := config.Render(app.cfg)
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:               "init",
	Short:             "Write a commented default configuration",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipConfig,
	RunE:              runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitLocal, "local", false,
		"write .postmortem.yaml in the current directory instead of the user config")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := cfgFile
	switch {
	case path != "":
	case configInitLocal:
		path = ".postmortem.yaml"
	default:
		p, err := config.UserConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := config.WriteDefault(path, configInitForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
