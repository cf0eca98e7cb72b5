// Package progress keeps the learning progress updates of a view in sync
// with the backend.
package progress

import (
	"context"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/notice"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/dmitrijs2005/skillshare/internal/logging"
)

const collectionName = "progress"

const (
	MsgLoadFailed   = "Failed to load progress updates"
	MsgSaveFailed   = "Failed to save update. Please try again."
	MsgCreated      = "Progress update shared"
	MsgSaved        = "Progress update saved"
	MsgDeleted      = "Progress update deleted"
	MsgDeleteFailed = "Failed to delete progress update"
)

// List holds progress updates newest first.
type List struct {
	api      client.ProgressAPI
	notifier notice.Notifier
	logger   logging.Logger
	items    *optimistic.Collection[models.ProgressUpdate]
	now      func() time.Time
}

type Option func(*listOptions)

type listOptions struct {
	notifier notice.Notifier
	logger   logging.Logger
	observer optimistic.Observer
}

func WithNotifier(n notice.Notifier) Option {
	return func(o *listOptions) { o.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(o *listOptions) { o.logger = l }
}

func WithObserver(obs optimistic.Observer) Option {
	return func(o *listOptions) { o.observer = obs }
}

func NewList(api client.ProgressAPI, opts ...Option) *List {
	o := listOptions{notifier: notice.Discard, logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &List{
		api:      api,
		notifier: o.notifier,
		logger:   o.logger,
		items:    optimistic.New[models.ProgressUpdate](collectionName, optimistic.WithLogger(o.logger), optimistic.WithObserver(o.observer)),
		now:      time.Now,
	}
}

func (l *List) Load(ctx context.Context) error {
	items, err := l.api.ListProgressUpdates(ctx)
	if err != nil {
		l.notifier.Notify(ctx, notice.LevelError, MsgLoadFailed)
		return err
	}
	return l.items.ReplaceAll(items)
}

func (l *List) Items() []models.ProgressUpdate {
	return l.items.Items()
}

func (l *List) Get(id int64) (models.ProgressUpdate, bool) {
	return l.items.Get(models.Key(id))
}

func (l *List) Pending(id int64) optimistic.PendingOp {
	return l.items.Pending(models.Key(id))
}

// saveError picks the user-facing message of a failed save.
func saveError(err error) string {
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Kind == client.KindBadRequest && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgSaveFailed
}

// Create validates d, shows it at the head of the list and submits it.
func (l *List) Create(ctx context.Context, d Draft) (models.ProgressUpdate, error) {
	if err := d.Validate(); err != nil {
		l.notifier.Notify(ctx, notice.LevelError, err.Error())
		return models.ProgressUpdate{}, err
	}

	payload := d.Payload()
	now := l.now()
	draft := models.ProgressUpdate{
		Title:       payload.Title,
		Topic:       payload.Topic,
		Description: payload.Description,
		Status:      payload.Status,
		SkillLevel:  payload.SkillLevel,
		Attachments: payload.Attachments,
		Visibility:  payload.Visibility,
		Tags:        payload.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, u, err := l.items.InsertOptimistic(ctx, draft, func(ctx context.Context) (models.ProgressUpdate, error) {
		return l.api.CreateProgressUpdate(ctx, payload)
	})
	if err != nil {
		l.notifier.Notify(ctx, notice.LevelError, saveError(err))
		return models.ProgressUpdate{}, err
	}
	l.notifier.Notify(ctx, notice.LevelSuccess, MsgCreated)
	return u, nil
}

// Edit applies changes to update id at once and submits the full result.
// The server's copy replaces the entry; a failure restores the changed
// fields.
func (l *List) Edit(ctx context.Context, id int64, changes Changes) (models.ProgressUpdate, error) {
	key := models.Key(id)
	current, ok := l.items.Get(key)
	if !ok {
		return models.ProgressUpdate{}, optimistic.ErrNotFound
	}

	edited := changes.apply(current)
	d := DraftFrom(edited)
	if err := d.Validate(); err != nil {
		l.notifier.Notify(ctx, notice.LevelError, err.Error())
		return models.ProgressUpdate{}, err
	}
	payload := d.Payload()

	var echo models.ProgressUpdate
	err := l.items.MutateField(ctx, key, changes, func(ctx context.Context) error {
		u, err := l.api.UpdateProgressUpdate(ctx, id, payload)
		echo = u
		return err
	})
	if err != nil {
		l.notifier.Notify(ctx, notice.LevelError, saveError(err))
		return models.ProgressUpdate{}, err
	}

	if echo.ID == id {
		if err := l.items.Overwrite(key, echo); err != nil {
			l.logger.Debug(ctx, "edit echo not applied", "id", id, "error", err)
		}
	}
	l.notifier.Notify(ctx, notice.LevelSuccess, MsgSaved)
	return echo, nil
}

// Delete removes update id, putting it back on failure.
func (l *List) Delete(ctx context.Context, id int64) error {
	err := l.items.Remove(ctx, models.Key(id), func(ctx context.Context) error {
		return l.api.DeleteProgressUpdate(ctx, id)
	})
	if err != nil {
		l.notifier.Notify(ctx, notice.LevelError, MsgDeleteFailed)
		return err
	}
	l.notifier.Notify(ctx, notice.LevelSuccess, MsgDeleted)
	return nil
}

// Close stops tracking; results of calls still in flight are dropped.
func (l *List) Close() {
	l.items.Close()
}
