// Package cli wires the client components together and dispatches terminal
// commands. It is the composition root: every dependency is created here and
// handed down explicitly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/apperror"
	"github.com/mentra-app/mentra-cli/internal/guard"
	"github.com/mentra-app/mentra-cli/internal/session"
	"github.com/mentra-app/mentra-cli/internal/store"
)

// App holds the wired components for one invocation.
type App struct {
	cfg     Config
	logger  *slog.Logger
	kv      *store.Store
	client  *api.Client
	session *session.Store
	out     io.Writer
}

// NewApp builds the dependency graph. The session store and API client
// reference each other (the client reads the token, the store calls the API),
// so the client is created first and the token source attached after.
func NewApp(cfg Config, logger *slog.Logger, out io.Writer) (*App, error) {
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	kv, err := store.Open(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	client := api.New(cfg.APIURL, nil, logger)
	sess := session.New(client, kv, logger)
	client.SetTokenSource(sess)

	return &App{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		client:  client,
		session: sess,
		out:     out,
	}, nil
}

// Close releases the durable store.
func (a *App) Close() error {
	return a.kv.Close()
}

// Run dispatches one command. Restore happens first for every command, so a
// persisted session is available (or cleanly absent) before any handler runs.
func (a *App) Run(ctx context.Context, args []string) error {
	// An unreachable backend downgrades to anonymous; commands that need a
	// session will say so themselves.
	if err := a.session.Restore(ctx); err != nil {
		a.logger.Debug("session restore", "error", err)
	}

	if len(args) == 0 {
		a.maybeLanding()
		a.usage()
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout()
	case "whoami":
		return a.cmdWhoami()
	case "register":
		return a.cmdRegister(ctx, rest)
	case "feed":
		return a.cmdFeed(ctx, rest)
	case "notifications":
		return a.cmdNotifications(ctx, rest)
	case "messages":
		return a.cmdMessages(ctx, rest)
	case "send":
		return a.cmdSend(ctx, rest)
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "students":
		return a.cmdStudents(ctx, rest)
	case "calendar":
		return a.cmdCalendar(ctx)
	case "payments":
		return a.cmdPayments(ctx, rest)
	case "not-attended":
		return a.cmdNotAttended(ctx, rest)
	case "help", "-h", "--help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// maybeLanding greets a first-time anonymous user exactly once. The flag is
// durable and cleared on logout, so the next account starts fresh.
func (a *App) maybeLanding() {
	if a.session.Snapshot().Authenticated() {
		return
	}
	if _, seen, err := a.kv.Get(store.KeyLandingSeen); err != nil || seen {
		return
	}
	fmt.Fprint(a.out, "Mentra'ya hoş geldiniz — özel ders yönetimi ve öğretmen topluluğu.\n\n")
	if err := a.kv.Set(store.KeyLandingSeen, "true"); err != nil {
		a.logger.Debug("persisting landing flag", "error", err)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.out, `mentra — tutoring management client

Usage:
  mentra login -email <email> -password <password>
  mentra login -google
  mentra register -email <email> -name <full name> -password <password>
  mentra logout
  mentra whoami

  mentra feed [-type all|posts|news] [-limit n]
  mentra notifications [list|read <id>|read-all]
  mentra messages [list|open <thread-id>]
  mentra send <thread-id> <message...>

  mentra dashboard
  mentra students [list|show <id>]
  mentra calendar
  mentra payments [-student <id>]
  mentra not-attended -lesson <id> -date <YYYY-MM-DD> -reason <text> [-reschedule -new-date <d> -start <HH:MM> -end <HH:MM>]
`)
}

// gate runs the route policy for the screen a command corresponds to. One
// policy, one place: the same decision table that governs navigation governs
// command dispatch.
func (a *App) gate(route guard.Route) error {
	switch guard.Decide(a.session.Snapshot(), route) {
	case guard.Render:
		return nil
	case guard.RedirectLogin:
		return apperror.FromStatus(401, "oturum açılmamış — önce `mentra login`")
	case guard.RedirectHome:
		return apperror.FromStatus(403, "bu ekran için yetkiniz yok")
	default: // guard.Wait: restore has not settled, nothing may assume a session
		return apperror.FromStatus(401, "oturum durumu henüz belirsiz, tekrar deneyin")
	}
}

// report prints an error the way the UI taxonomy asks: validation and
// user-triggered failures as short notices, never a crash.
func report(out io.Writer, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(out, "hata: %s\n", appErr.Message)
		return err
	}
	return err
}
