package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/household"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(accrueCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of transactions to show (0 for all)")
}

// ─── balance ────────────────────────────────────────────────────────────────

var balanceCmd = &cobra.Command{
	Use:   "balance [SUBJECT]",
	Short: "Show balances, paying any owed interest first",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	profiles := a.service.Profiles()
	if len(args) == 1 {
		p, err := a.service.Profile(bank.SubjectID(args[0]))
		if err != nil {
			return err
		}
		profiles = []household.Profile{p}
	}

	out := cmd.OutOrStdout()
	for _, p := range profiles {
		balance, err := a.service.Balance(cmd.Context(), p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %-10s %6d min  (%s)\n", p.Avatar, p.Name, balance, household.FormatMinutes(balance))
	}
	return nil
}

// ─── history ────────────────────────────────────────────────────────────────

var historyCmd = &cobra.Command{
	Use:   "history SUBJECT",
	Short: "List a subject's transactions, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.service.History(cmd.Context(), bank.SubjectID(args[0]))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintln(out, "No transactions yet.")
		return nil
	}

	running := bank.RunningBalances(history)
	shown := 0
	for i := len(history) - 1; i >= 0; i-- {
		if limit > 0 && shown == limit {
			break
		}
		tx := history[i]
		fmt.Fprintf(out, "%s  %-8s %+6d  = %-8s %s\n",
			tx.Timestamp.In(time.Local).Format("2006-01-02 15:04"),
			tx.Kind,
			tx.Signed(),
			household.FormatMinutes(running[i]),
			tx.Note,
		)
		shown++
	}
	return nil
}

// ─── deposit / withdraw ─────────────────────────────────────────────────────

var depositCmd = &cobra.Command{
	Use:   "deposit SUBJECT CATEGORY MINUTES",
	Short: "Log study minutes (workbook, book, video)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, args, bank.Deposit)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw SUBJECT CATEGORY MINUTES",
	Short: "Spend screen-time minutes (youtube_game, tv_watch)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, args, bank.Withdraw)
	},
}

func runRecord(cmd *cobra.Command, args []string, kind bank.Kind) error {
	minutes, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("minutes must be a whole number: %w", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	subjectID := bank.SubjectID(args[0])
	var res *household.RecordResult
	if kind == bank.Withdraw {
		res, err = a.service.Withdraw(cmd.Context(), subjectID, household.ScreenCategory(args[1]), minutes)
	} else {
		res, err = a.service.Deposit(cmd.Context(), subjectID, household.StudyCategory(args[1]), minutes)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tx := range res.Interest {
		fmt.Fprintf(out, "📈 +%d interest\n", tx.Amount)
	}
	fmt.Fprintf(out, "%s %+d min, balance %s\n", res.Transaction.Note, res.Transaction.Signed(), household.FormatMinutes(res.Balance))
	fmt.Fprintln(out, res.Transaction.Message)
	if res.CredentialIssue {
		fmt.Fprintln(out, "⚠️  The message service rejected the API key. Check your key and try again.")
	}
	return nil
}

// ─── accrue ─────────────────────────────────────────────────────────────────

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "Pay owed interest for every subject now",
	Args:  cobra.NoArgs,
	RunE:  runAccrue,
}

func runAccrue(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	paid, err := a.service.ProcessAllInterest(cmd.Context())
	out := cmd.OutOrStdout()
	for _, p := range a.service.Profiles() {
		var minutes int64
		for _, tx := range paid[p.ID] {
			minutes += tx.Amount
		}
		fmt.Fprintf(out, "%-10s %d period(s), +%d min\n", p.Name, len(paid[p.ID]), minutes)
	}
	return err
}
