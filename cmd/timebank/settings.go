package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warp/timebank/factory"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect or reset the interest policy and multipliers",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		settings, err := a.service.CurrentSettings(cmd.Context())
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(factory.NewSettingsFactory().ToJSON(settings), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings (history is kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.service.ResetSettings(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Settings reset to defaults")
		return nil
	},
}
