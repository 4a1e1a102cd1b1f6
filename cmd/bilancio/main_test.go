package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("MEMORY_SNAPSHOT_PATH", filepath.Join(t.TempDir(), "bilancio.json"))
	t.Setenv("STORAGE_KEY_PREFIX", "expenseTracker")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CACHE_SIZE", "16")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("CHART_WIDTH", "48")
	t.Setenv("CHART_HEIGHT", "14")
	t.Setenv("CHART_PIXEL_RATIO", "2")
}

func invoke(args ...string) result {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestAccountLifecycle(t *testing.T) {
	setupEnv(t)

	r := invoke("signup", "Alice", "x", "y")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "passwords do not match")

	r = invoke("signup", "Alice", "x", "x")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "Welcome, Alice")

	r = invoke("whoami")
	require.Equal(t, "Alice\n", r.stdout)

	r = invoke("signup", "alice", "y", "y")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "already taken")

	require.Equal(t, 0, invoke("logout").code)
	require.Contains(t, invoke("whoami").stdout, "Not logged in.")

	r = invoke("login", "alice", "wrong")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "invalid username or password")

	r = invoke("reset-password", "ALICE", "new", "new")
	require.Equal(t, 0, r.code, r.stderr)

	r = invoke("login", "alice", "new")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "Logged in as Alice")

	r = invoke("reset-password", "nobody", "a", "a")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "no account")
}

func TestLedgerCommands(t *testing.T) {
	setupEnv(t)
	require.Equal(t, 0, invoke("signup", "Bob", "pw", "pw").code)

	r := invoke("salary", "-month", "2026-02", "1500")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "Feb 2026")

	r = invoke("add", "-month", "2026-02", "Rent", "700,50")
	require.Equal(t, 0, r.code, r.stderr)
	fields := strings.Fields(r.stdout)
	rentID := fields[len(fields)-1]

	require.Equal(t, 0, invoke("add", "-month", "2026-02", "Coffee", "3.20").code)

	r = invoke("show", "-month", "2026-02", "-charts=false")
	require.Equal(t, 0, r.code, r.stderr)
	for _, want := range []string{"Feb 2026", "1500.00", "703.70", "796.30", "Rent", "Coffee", rentID} {
		require.Contains(t, r.stdout, want)
	}
	require.Less(t, strings.Index(r.stdout, "Coffee"), strings.Index(r.stdout, "Rent"), "newest first")

	r = invoke("add", "-month", "2026-02", "Gift", "-5")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "valid amount")

	r = invoke("add", "-month", "2026-02", "  ", "5")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "title")

	r = invoke("delete", "-month", "2026-02", rentID)
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "Expense deleted.")

	r = invoke("delete", "-month", "2026-02", rentID)
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "nothing to delete")

	r = invoke("reset-month", "-month", "2026-02")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "-yes")

	r = invoke("reset-month", "-month", "2026-02", "-yes")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "Feb 2026 reset.")

	r = invoke("reset-month", "-month", "2026-02", "-yes")
	require.Contains(t, r.stdout, "nothing to reset")

	r = invoke("show", "-month", "2026-03", "-prev", "-charts=false")
	require.Equal(t, 0, r.code, r.stderr)
	require.Contains(t, r.stdout, "Feb 2026")
	require.Contains(t, r.stdout, "1500.00")
	require.Contains(t, r.stdout, "No expenses yet")
}

func TestShowDrawsCharts(t *testing.T) {
	setupEnv(t)
	require.Equal(t, 0, invoke("signup", "Carol", "pw", "pw").code)
	require.Equal(t, 0, invoke("salary", "-month", "2026-02", "100").code)
	require.Equal(t, 0, invoke("add", "-month", "2026-01", "Books", "40").code)
	require.Equal(t, 0, invoke("add", "-month", "2026-02", "Train", "25").code)

	r := invoke("show", "-month", "2026-02", "-remaining")
	require.Equal(t, 0, r.code, r.stderr)
	for _, want := range []string{"Sep", "Jan", "Feb", "Remaining", "75.00", "█"} {
		require.Contains(t, r.stdout, want)
	}
}

func TestCommandsNeedLogin(t *testing.T) {
	setupEnv(t)

	r := invoke("add", "Rent", "10")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "please log in first")

	r = invoke("show")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "please log in first")
}

func TestUsageErrors(t *testing.T) {
	setupEnv(t)

	require.Equal(t, 2, invoke().code)
	require.Equal(t, 0, invoke("help").code)

	r := invoke("frobnicate")
	require.Equal(t, 2, r.code)
	require.Contains(t, r.stderr, "unknown command")

	r = invoke("add", "only-title")
	require.Equal(t, 2, r.code)
	require.Contains(t, r.stderr, "usage: bilancio add")

	r = invoke("show", "-month", "February")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "YYYY-MM")

	r = invoke("watch")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "AMQP_URL")
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "sheets")

	r := invoke("whoami")
	require.Equal(t, 1, r.code)
	require.Contains(t, r.stderr, "invalid data backend")
}
