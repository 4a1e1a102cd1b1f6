package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"bilancio/internal/amqp"
	"bilancio/internal/chart"
	"bilancio/internal/cli"
	"bilancio/internal/core"
	applog "bilancio/internal/log"
	"bilancio/internal/services"
)

var (
	errUsage         = errors.New("wrong arguments")
	errPasswordMatch = errors.New("passwords do not match")
	errNotConfirmed  = errors.New("refusing to remove expenses without -yes")
	errNoFeed        = errors.New("AMQP_URL is not set or the broker is unreachable")
)

func isUsageError(err error) bool {
	return errors.Is(err, errUsage)
}

// describe turns domain errors into messages for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		return "please enter a title"
	case errors.Is(err, core.ErrInvalidAmount):
		return "please enter a valid amount greater than zero"
	case errors.Is(err, core.ErrInvalidSalary):
		return "please enter a valid salary of zero or more"
	case errors.Is(err, core.ErrDuplicateUser):
		return "that username is already taken"
	case errors.Is(err, core.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, core.ErrUserNotFound):
		return "no account with that username"
	case errors.Is(err, services.ErrNoSession):
		return "please log in first"
	}
	return err.Error()
}

// monthFlags adds the month cursor flags shared by ledger commands.
type monthFlags struct {
	month string
	prev  bool
	next  bool
}

func newFlagSet(name string, mf *monthFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if mf != nil {
		fs.StringVar(&mf.month, "month", "", "month to use, YYYY-MM (default: current month)")
		fs.BoolVar(&mf.prev, "prev", false, "step one month back")
		fs.BoolVar(&mf.next, "next", false, "step one month forward")
	}
	return fs
}

func parse(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != want {
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", errUsage, want, fs.NArg())
	}
	return fs.Args(), nil
}

func (a *app) month(mf monthFlags) (core.YearMonth, error) {
	ym := core.YearMonthOf(a.now())
	if mf.month != "" {
		parsed, err := core.ParseYearMonth(mf.month)
		if err != nil {
			return ym, err
		}
		ym = parsed
	}
	if mf.prev {
		ym = ym.AddMonths(-1)
	}
	if mf.next {
		ym = ym.AddMonths(1)
	}
	return ym, nil
}

func cmdSignup(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlagSet("signup", nil), args, 3)
	if err != nil {
		return err
	}
	if rest[1] != rest[2] {
		return errPasswordMatch
	}
	rec, err := a.users.Signup(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	if err := a.session.Begin(ctx, rec.Username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s. You are now logged in.\n", styleAccent.Render(rec.Username))
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlagSet("login", nil), args, 2)
	if err != nil {
		return err
	}
	rec, err := a.users.Login(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	if err := a.session.Begin(ctx, rec.Username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", styleAccent.Render(rec.Username))
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet("logout", nil), args, 0); err != nil {
		return err
	}
	if err := a.session.End(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func cmdWhoami(_ context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet("whoami", nil), args, 0); err != nil {
		return err
	}
	user, ok := a.session.User()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintln(a.out, user)
	return nil
}

func cmdResetPassword(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlagSet("reset-password", nil), args, 3)
	if err != nil {
		return err
	}
	if rest[1] != rest[2] {
		return errPasswordMatch
	}
	if err := a.users.ResetPassword(ctx, rest[0], rest[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated. You can log in with the new password.")
	return nil
}

func cmdSalary(ctx context.Context, a *app, args []string) error {
	var mf monthFlags
	rest, err := parse(newFlagSet("salary", &mf), args, 1)
	if err != nil {
		return err
	}
	ym, err := a.month(mf)
	if err != nil {
		return err
	}
	value, err := core.ParseSalary(rest[0])
	if err != nil {
		return err
	}
	ledger, err := a.ledgers.UpdateSalary(ctx, a.session, ym, value)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Salary for %s set to %s.\n", ym.Label(), core.FormatAmount(ledger.Salary))
	return nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	var mf monthFlags
	rest, err := parse(newFlagSet("add", &mf), args, 2)
	if err != nil {
		return err
	}
	ym, err := a.month(mf)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rest[0]) == "" {
		return core.Invalid(core.ErrEmptyTitle)
	}
	amount, err := core.ParseAmount(rest[1])
	if err != nil {
		return err
	}
	_, e, err := a.ledgers.Add(ctx, a.session, ym, rest[0], amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s) to %s. id %s\n",
		e.Title, core.FormatAmount(e.Amount), ym.Label(), styleMuted.Render(e.ID))
	return nil
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	var mf monthFlags
	rest, err := parse(newFlagSet("delete", &mf), args, 1)
	if err != nil {
		return err
	}
	ym, err := a.month(mf)
	if err != nil {
		return err
	}
	_, removed, err := a.ledgers.Delete(ctx, a.session, ym, rest[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(a.out, "No expense %s in %s; nothing to delete.\n", rest[0], ym.Label())
		return nil
	}
	fmt.Fprintln(a.out, "Expense deleted.")
	return nil
}

func cmdClear(ctx context.Context, a *app, args []string) error {
	var mf monthFlags
	fs := newFlagSet("clear", &mf)
	yes := fs.Bool("yes", false, "confirm removing every expense of the month")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if !*yes {
		return errNotConfirmed
	}
	ym, err := a.month(mf)
	if err != nil {
		return err
	}
	if _, err := a.ledgers.Clear(ctx, a.session, ym); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "All expenses for %s removed.\n", ym.Label())
	return nil
}

func cmdResetMonth(ctx context.Context, a *app, args []string) error {
	var mf monthFlags
	fs := newFlagSet("reset-month", &mf)
	yes := fs.Bool("yes", false, "confirm resetting the month")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	if !*yes {
		return errNotConfirmed
	}
	ym, err := a.month(mf)
	if err != nil {
		return err
	}
	_, changed, err := a.ledgers.ResetMonth(ctx, a.session, ym)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintf(a.out, "%s has no expenses; nothing to reset.\n", ym.Label())
		return nil
	}
	fmt.Fprintf(a.out, "%s reset.\n", ym.Label())
	return nil
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	var mf monthFlags
	fs := newFlagSet("show", &mf)
	remaining := fs.Bool("remaining", false, "show the remaining amount in the donut instead of the spent total")
	charts := fs.Bool("charts", true, "draw the history and donut charts")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	ym, err := a.month(mf)
	if err != nil {
		return err
	}

	user, ok := a.session.User()
	if !ok {
		return services.ErrNoSession
	}
	ledger, err := a.ledgers.Load(ctx, a.session, ym)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, renderSummary(user, ym, ledger))
	fmt.Fprintln(a.out, renderExpenses(ledger))

	if !*charts {
		return nil
	}

	totals, err := a.history.LastNMonths(ctx, a.session, ym, historyMonths)
	if err != nil {
		return err
	}
	bar, err := a.renderHistory(ctx, totals)
	if err != nil {
		return err
	}
	donut, err := a.renderDonut(ledger, *remaining)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, joinCharts(bar, donut))
	return nil
}

// cmdWatch prints every ledger change announced on the change feed until
// interrupted.
func cmdWatch(_ context.Context, a *app, args []string) error {
	if _, err := parse(newFlagSet("watch", nil), args, 0); err != nil {
		return err
	}
	client := a.backend.Publisher
	if client == nil {
		return errNoFeed
	}

	ctx, done := cli.GracefulShutdown(a.logger, shutdownTimeout, nil)
	ctx = applog.NewContext(ctx, a.logger)
	fmt.Fprintln(a.out, styleMuted.Render("Watching ledger changes. Press Ctrl+C to stop."))

	err := client.ConsumeLedgerChanges(ctx, func(msg *amqp.LedgerChangedMessage) error {
		fmt.Fprintln(a.out, renderChange(msg))
		return nil
	})
	if errors.Is(err, context.Canceled) {
		cli.WaitForShutdown(ctx, done)
		return nil
	}
	return err
}

func (a *app) renderHistory(ctx context.Context, totals []core.MonthTotal) (string, error) {
	entries := make([]chart.BarEntry, len(totals))
	for i, t := range totals {
		entries[i] = chart.BarEntry{Label: t.Label, Value: t.Total.InexactFloat64()}
	}

	surface := newChartSurface(a.cfg)
	anim, err := a.bars.Render(ctx, surface, entries)
	if err != nil {
		return "", err
	}
	<-anim.Done()
	if err := anim.Err(); err != nil {
		return "", err
	}
	return surface.View(), nil
}

func (a *app) renderDonut(ledger core.MonthLedger, remaining bool) (string, error) {
	surface := newDonutSurface(a.cfg)
	donut := chart.NewDonutRenderer(chart.DonutSpent)
	salary := ledger.Salary.InexactFloat64()
	spent := ledger.TotalSpent().InexactFloat64()

	if !remaining {
		if err := donut.Render(surface, salary, spent); err != nil {
			return "", err
		}
		return surface.View(), nil
	}
	if _, err := donut.Toggle(surface, salary, spent); err != nil {
		return "", err
	}
	return surface.View(), nil
}
