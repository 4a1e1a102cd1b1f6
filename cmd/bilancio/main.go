package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"bilancio/internal/backend"
	"bilancio/internal/chart"
	"bilancio/internal/cli"
	"bilancio/internal/config"
	applog "bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/session"
	"bilancio/internal/storage"
)

const historyMonths = 6

type app struct {
	cfg    *config.Config
	logger *applog.Logger
	out    io.Writer
	now    func() time.Time

	backend *backend.BackendResult
	session *session.Session
	users   *services.UserDirectory
	ledgers *services.LedgerService
	history *services.HistoryQuery
	bars    *chart.BarRenderer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"signup":         {"signup <username> <password> <confirm>", cmdSignup},
	"login":          {"login <username> <password>", cmdLogin},
	"logout":         {"logout", cmdLogout},
	"whoami":         {"whoami", cmdWhoami},
	"reset-password": {"reset-password <username> <new-password> <confirm>", cmdResetPassword},
	"salary":         {"salary [-month YYYY-MM] <amount>", cmdSalary},
	"add":            {"add [-month YYYY-MM] <title> <amount>", cmdAdd},
	"delete":         {"delete [-month YYYY-MM] <expense-id>", cmdDelete},
	"clear":          {"clear [-month YYYY-MM] -yes", cmdClear},
	"reset-month":    {"reset-month [-month YYYY-MM] -yes", cmdResetMonth},
	"show":           {"show [-month YYYY-MM] [-prev|-next] [-remaining] [-charts=false]", cmdShow},
	"watch":          {"watch", cmdWatch},
}

func main() {
	cli.LoadEnvFile()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger := cli.SetupLogger(cfg.LogLevel, stderr)
	ctx = applog.NewContext(ctx, logger)

	a, err := newApp(ctx, cfg, logger, stdout)
	if err != nil {
		logger.Error("Startup failed", applog.FieldOperation, applog.OpStartup, applog.FieldError, err)
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer a.close()

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		fmt.Fprintln(stderr, "error:", describe(err))
		if isUsageError(err) {
			fmt.Fprintln(stderr, "usage: bilancio", cmd.usage)
			return 2
		}
		return 1
	}
	return 0
}

func newApp(ctx context.Context, cfg *config.Config, logger *applog.Logger, out io.Writer) (*app, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	keys := storage.NewKeys(cfg.StorageKeyPrefix)
	sess := session.New(res.Store, keys)
	if _, _, err := sess.Restore(ctx); err != nil {
		_ = res.Cleanup()
		return nil, err
	}

	var opts []services.LedgerOption
	if res.Publisher != nil {
		opts = append(opts, services.WithPublisher(res.Publisher))
	}
	ledgers := services.NewLedgerService(res.Store, keys, opts...)

	return &app{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		now:     time.Now,
		backend: res,
		session: sess,
		users:   services.NewUserDirectory(res.Store, keys),
		ledgers: ledgers,
		history: services.NewHistoryQuery(ledgers),
		bars:    chart.NewBarRenderer(),
	}, nil
}

func (a *app) close() {
	if a.backend.Cleanup == nil {
		return
	}
	if err := a.backend.Cleanup(); err != nil {
		a.logger.Warn("Cleanup failed", applog.FieldOperation, applog.OpShutdown, applog.FieldError, err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: bilancio <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(w, "  bilancio", commands[name].usage)
	}
}
