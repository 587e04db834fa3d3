/*
main.go - Application entry point

PURPOSE:
  The timebank command runs the HTTP server and offers the same ledger
  operations from the shell.

COMMANDS:
  serve                        Start the HTTP API and interest scheduler
  balance [SUBJECT]            Show balances (pays owed interest first)
  history SUBJECT              List transactions, newest first
  deposit SUBJECT CATEGORY MIN Log study minutes
  withdraw SUBJECT CATEGORY MIN Spend screen-time minutes
  accrue                       Run interest for every subject now
  settings show|reset          Inspect or reset settings

GLOBAL FLAGS:
  --config   TOML config file (default: timebank.toml, missing is fine)
  --db       SQLite database path, overrides [database].path
             Use ":memory:" for a throwaway ledger

EXAMPLES:
  timebank serve --port 3000
  timebank deposit seoa workbook 30
  timebank history seou

SEE ALSO:
  - config/config.go: File format
  - api/server.go: Router configuration
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timebank",
	Short: "Household time bank: earn screen time by studying",
	Long: `Children log study minutes to earn screen-time minutes and spend them on
TV or games. Balances that go untouched for a while earn daily interest.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "timebank.toml", "Path to the TOML config file")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
