package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"focustimer/internal/platform"
)

func newAutostartCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launching the tray app at login",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Start the tray app at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			execPath, err := os.Executable()
			if err != nil {
				return fmt.Errorf("resolve executable: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
				execPath = resolved
			}
			entry := platform.AutostartEntry{AppName: appName, ExecPath: execPath, Args: []string{"desktop"}}
			if err := env.service.EnableAutostart(entry); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop starting the tray app at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.service.DisableAutostart(appName); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether autostart is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enabled, err := env.service.AutostartEnabled(appName)
			if err != nil {
				return err
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "autostart %s\n", state)
			return nil
		},
	})
	return cmd
}
