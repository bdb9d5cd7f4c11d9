package main

import (
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"github.com/spf13/cobra"
)

//go:embed importarr.service.tmpl
var unitTemplate string

const unitPath = "/etc/systemd/system/importarr.service"

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the systemd service",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write a systemd unit running 'importarr watch'",
	Args:  cobra.NoArgs,
	RunE:  runServiceInstall,
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceInstallCmd.Flags().String("user", "importarr", "User the service runs as")
}

func runServiceInstall(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")

	binary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate binary: %w", err)
	}
	cfgPath, err := configPath()
	if err != nil {
		return err
	}

	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return fmt.Errorf("parse unit template: %w", err)
	}

	f, err := os.OpenFile(unitPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("write %s (need root?): %w", unitPath, err)
	}
	defer f.Close()

	data := struct {
		Binary string
		Config string
		User   string
	}{Binary: binary, Config: cfgPath, User: user}

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("render unit: %w", err)
	}

	fmt.Printf("Wrote %s\n", unitPath)
	fmt.Println("Enable with: systemctl daemon-reload && systemctl enable --now importarr")
	return nil
}
