package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/config"
	"github.com/dmitrijs2005/skillshare/internal/client/metrics"
	"github.com/dmitrijs2005/skillshare/internal/client/notice"
	"github.com/dmitrijs2005/skillshare/internal/client/notifications"
	"github.com/dmitrijs2005/skillshare/internal/client/posts"
	"github.com/dmitrijs2005/skillshare/internal/client/progress"
	"github.com/dmitrijs2005/skillshare/internal/client/session"
	"github.com/dmitrijs2005/skillshare/internal/filex"
	"github.com/dmitrijs2005/skillshare/internal/logging"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	gateway  *client.Gateway
	cache    *session.SQLiteCache
	session  *session.Store
	feed     *posts.Feed
	inbox    *notifications.Inbox
	progress *progress.List
	metrics  *metrics.Recorder
	notifier notice.Notifier
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the local cache and builds every component against the
// configured backend. Input is read from in and everything user-facing is
// written to out.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := filex.EnsureParentDir(c.CachePath); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.CachePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.CachePath, "error", err)
		return nil, err
	}

	rec := metrics.NewRecorder()

	gw, err := client.NewGateway(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("component", "gateway")),
		client.WithObserver(rec),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:  c,
		logger:  logger,
		db:      db,
		gateway: gw,
		cache:   session.NewSQLiteCache(db),
		metrics: rec,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.notifier = newTerminalNotifier(out)
	a.session = session.NewStore(gw, a.cache,
		session.WithBrowser(session.BrowserFunc(a.showAuthorizationURL)),
		session.WithLogger(logger.With("component", "session")),
	)
	a.feed = posts.NewFeed(gw, a.session,
		posts.WithNotifier(a.notifier),
		posts.WithLogger(logger.With("component", "posts")),
		posts.WithObserver(rec),
	)
	a.resetCollections()

	// Per-user data must not outlive the session that loaded it.
	a.session.Subscribe(func(s session.Session) {
		if s.Status == session.StatusUnauthenticated {
			a.resetCollections()
		}
	})
	return a, nil
}

// resetCollections drops the per-user collections and starts empty ones.
func (a *App) resetCollections() {
	if a.inbox != nil {
		a.inbox.Close()
	}
	if a.progress != nil {
		a.progress.Close()
	}
	a.inbox = notifications.NewInbox(a.gateway,
		notifications.WithNotifier(a.notifier),
		notifications.WithLogger(a.logger.With("component", "notifications")),
		notifications.WithObserver(a.metrics),
	)
	a.progress = progress.NewList(a.gateway,
		progress.WithNotifier(a.notifier),
		progress.WithLogger(a.logger.With("component", "progress")),
		progress.WithObserver(a.metrics),
	)
}

// Run restores the session, preloads user data and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to skillshare CLI (type 'help' for commands)")

	s, err := a.session.Bootstrap(ctx)
	switch {
	case s.Authenticated():
		a.println(fmt.Sprintf("Signed in as %s", s.User.DisplayName()))
		a.preload(ctx)
	case errors.Is(err, client.ErrUnauthorized):
		a.println("Not signed in. Type 'login' to sign in.")
	case err != nil:
		a.logger.Debug(ctx, "bootstrap failed", "error", err)
		a.println(s.Message)
	}

	runREPL(ctx, a, a.status, a.reader)
}

// preload fetches the inbox and the progress list in parallel.
func (a *App) preload(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.inbox.Load(gctx) })
	g.Go(func() error { return a.progress.Load(gctx) })
	if err := g.Wait(); err != nil {
		a.logger.Warn(ctx, "preload failed", "error", err)
	}
}

func (a *App) Close() {
	a.feed.Close()
	a.inbox.Close()
	a.progress.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Warn(context.Background(), "close cache", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Authenticated()
}

func (a *App) status() string {
	s := a.session.Current()
	if s.Authenticated() {
		unread := a.inbox.UnreadCount()
		if unread > 0 {
			return fmt.Sprintf("(%s, %d unread) ", s.User.DisplayName(), unread)
		}
		return fmt.Sprintf("(%s) ", s.User.DisplayName())
	}
	return fmt.Sprintf("(%s) ", s.Status)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) showAuthorizationURL(url string) error {
	a.println("Open this address in your browser to continue:")
	a.println(url)
	return nil
}
