package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/importarr/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "./importarr.toml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		fmt.Println("Edit it, then check with 'importarr config validate'.")
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for problems",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		fatal := 0
		for _, p := range cfg.Validate() {
			fmt.Printf("%s: %s\n", path, p)
			if !config.IsWarning(p) {
				fatal++
			}
		}
		if fatal > 0 {
			return fmt.Errorf("%d problem(s) found", fatal)
		}
		fmt.Printf("%s: OK\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
}
