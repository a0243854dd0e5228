package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"iglikes/pkg/config"
	"iglikes/pkg/ui"
)

var (
	configForce      bool
	configShowFormat string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manage the iglikes configuration file.

Values are resolved in this order, highest first:
  - Command line flags
  - IGLIKES_* environment variables (.env files are read too)
  - The configuration file (JSON, or YAML for .yaml/.yml)
  - Defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after applying every source. The password is
masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file for errors",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "output format (yaml or json)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := resolvedConfigPath()

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("configuration file %s already exists (use --force to replace it)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Configuration written to %s", path))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd, nil)
	if err != nil {
		return err
	}

	masked := *a.cfg
	if masked.Password != "" {
		masked.Password = "********"
	}

	out, err := renderConfig(&masked, configShowFormat)
	if err != nil {
		return err
	}
	ui.PrintInfo("Configuration file", a.configPath)
	fmt.Fprintln(ui.Output, out)
	return nil
}

func renderConfig(cfg *config.Config, format string) (string, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// runConfigValidate checks the file alone: defaults, then the file, then
// Validate. Nothing is written.
func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := resolvedConfigPath()

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("configuration file %s not found (run 'iglikes config init')", path)
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration is invalid", path)
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(ui.Output, "  - %s\n", line)
		}
		return errors.New("validation failed")
	}

	ui.PrintSuccess(fmt.Sprintf("%s is valid", path))
	return nil
}
