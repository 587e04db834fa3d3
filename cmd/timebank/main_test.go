package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/timebank/bank"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI_RecordAndInspect(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	db := filepath.Join(t.TempDir(), "timebank.db")

	out, err := execute(t, "deposit", "seoa", "workbook", "30", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Workbook +60 min, balance 1h")

	out, err = execute(t, "balance", "seoa", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "60 min")

	out, err = execute(t, "history", "seoa", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "deposit")

	_, err = execute(t, "withdraw", "seoa", "tv_watch", "100", "--db", db)
	assert.ErrorIs(t, err, bank.ErrInsufficientBalance)

	_, err = execute(t, "deposit", "seoa", "workbook", "ten", "--db", db)
	assert.Error(t, err)
}

func TestCLI_Settings(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	db := filepath.Join(t.TempDir(), "timebank.db")

	out, err := execute(t, "settings", "show", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, `"interest_threshold_hours": 48`)

	out, err = execute(t, "settings", "reset", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Settings reset")
}

func TestCLI_UnknownSubject(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	db := filepath.Join(t.TempDir(), "timebank.db")

	_, err := execute(t, "balance", "nobody", "--db", db)
	assert.ErrorIs(t, err, bank.ErrSubjectNotFound)
}
