// Package notifications keeps the user's notification inbox in sync with
// the backend.
package notifications

import (
	"context"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/notice"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/dmitrijs2005/skillshare/internal/logging"
)

const collectionName = "notifications"

const (
	MsgLoadFailed        = "Failed to load notifications"
	MsgMarkedRead        = "Notification marked as read"
	MsgMarkReadFailed    = "Failed to mark as read"
	MsgAllMarkedRead     = "All notifications marked as read"
	MsgMarkAllReadFailed = "Failed to mark all as read"
	MsgDeleted           = "Notification deleted"
	MsgDeleteFailed      = "Failed to delete notification"
)

// Inbox holds notifications newest first.
type Inbox struct {
	api      client.NotificationsAPI
	notifier notice.Notifier
	logger   logging.Logger
	items    *optimistic.Collection[models.Notification]
}

type Option func(*inboxOptions)

type inboxOptions struct {
	notifier notice.Notifier
	logger   logging.Logger
	observer optimistic.Observer
}

func WithNotifier(n notice.Notifier) Option {
	return func(o *inboxOptions) { o.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(o *inboxOptions) { o.logger = l }
}

func WithObserver(obs optimistic.Observer) Option {
	return func(o *inboxOptions) { o.observer = obs }
}

func NewInbox(api client.NotificationsAPI, opts ...Option) *Inbox {
	o := inboxOptions{notifier: notice.Discard, logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Inbox{
		api:      api,
		notifier: o.notifier,
		logger:   o.logger,
		items:    optimistic.New[models.Notification](collectionName, optimistic.WithLogger(o.logger), optimistic.WithObserver(o.observer)),
	}
}

// Load replaces the inbox with the backend's list.
func (in *Inbox) Load(ctx context.Context) error {
	items, err := in.api.ListNotifications(ctx)
	if err != nil {
		in.notifier.Notify(ctx, notice.LevelError, MsgLoadFailed)
		return err
	}
	return in.items.ReplaceAll(items)
}

// Items returns the notifications, newest first.
func (in *Inbox) Items() []models.Notification {
	return in.items.Items()
}

func (in *Inbox) Get(id int64) (models.Notification, bool) {
	return in.items.Get(models.Key(id))
}

// UnreadCount counts unread notifications as they are shown right now.
func (in *Inbox) UnreadCount() int {
	return in.items.Count(func(n models.Notification) bool { return !n.Read })
}

func (in *Inbox) Pending(id int64) optimistic.PendingOp {
	return in.items.Pending(models.Key(id))
}

var readPatch = optimistic.Fields(
	func(n models.Notification) models.Notification {
		n.Read = true
		return n
	},
	func(cur, prior models.Notification) models.Notification {
		cur.Read = prior.Read
		return cur
	},
)

// MarkRead marks notification id read, reverting on failure.
func (in *Inbox) MarkRead(ctx context.Context, id int64) error {
	err := in.items.MutateField(ctx, models.Key(id), readPatch, func(ctx context.Context) error {
		return in.api.MarkNotificationRead(ctx, id)
	})
	if err != nil {
		in.notifier.Notify(ctx, notice.LevelError, MsgMarkReadFailed)
		return err
	}
	in.notifier.Notify(ctx, notice.LevelSuccess, MsgMarkedRead)
	return nil
}

// Delete removes notification id, putting it back on failure.
func (in *Inbox) Delete(ctx context.Context, id int64) error {
	err := in.items.Remove(ctx, models.Key(id), func(ctx context.Context) error {
		return in.api.DeleteNotification(ctx, id)
	})
	if err != nil {
		in.notifier.Notify(ctx, notice.LevelError, MsgDeleteFailed)
		return err
	}
	in.notifier.Notify(ctx, notice.LevelSuccess, MsgDeleted)
	return nil
}

// MarkAllRead flips every read flag locally and then tells the backend. A
// failure is reported but the local flip stays.
func (in *Inbox) MarkAllRead(ctx context.Context) error {
	err := in.items.UpdateAll(func(n models.Notification) models.Notification {
		n.Read = true
		return n
	})
	if err != nil {
		return err
	}

	if err := in.api.MarkAllNotificationsRead(ctx); err != nil {
		in.logger.Warn(ctx, "mark all read failed, local state kept", "error", err)
		in.notifier.Notify(ctx, notice.LevelError, MsgMarkAllReadFailed)
		return err
	}
	in.notifier.Notify(ctx, notice.LevelSuccess, MsgAllMarkedRead)
	return nil
}

// Close stops tracking; results of calls still in flight are dropped.
func (in *Inbox) Close() {
	in.items.Close()
}
