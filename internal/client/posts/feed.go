// Package posts tracks the posts a view shows and their per-viewer like
// state.
package posts

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/notice"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/dmitrijs2005/skillshare/internal/client/session"
	"github.com/dmitrijs2005/skillshare/internal/common"
	"github.com/dmitrijs2005/skillshare/internal/logging"
)

const collectionName = "posts"

// User-facing messages.
const (
	MsgLoginToLike   = "Please log in to like this post"
	MsgLoginToPost   = "Please log in to create a post"
	MsgLikeFailed    = "Failed to update like"
	MsgPostEmpty     = "Post cannot be empty"
	MsgTooManyFiles  = "You can only upload up to 3 files"
	MsgPostCreated   = "Post created"
	MsgPostFailed    = "Failed to create post"
	MsgPostNotFound  = "Post not found"
	MsgPostLoadError = "Failed to load post"
)

// Feed owns the posts of one view.
type Feed struct {
	api      client.PostsAPI
	session  session.Reader
	notifier notice.Notifier
	logger   logging.Logger
	items    *optimistic.Collection[models.Post]
	now      func() time.Time
}

type Option func(*feedOptions)

type feedOptions struct {
	notifier notice.Notifier
	logger   logging.Logger
	observer optimistic.Observer
}

func WithNotifier(n notice.Notifier) Option {
	return func(o *feedOptions) { o.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(o *feedOptions) { o.logger = l }
}

func WithObserver(obs optimistic.Observer) Option {
	return func(o *feedOptions) { o.observer = obs }
}

func NewFeed(api client.PostsAPI, sess session.Reader, opts ...Option) *Feed {
	o := feedOptions{notifier: notice.Discard, logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Feed{
		api:      api,
		session:  sess,
		notifier: o.notifier,
		logger:   o.logger,
		items:    optimistic.New[models.Post](collectionName, optimistic.WithLogger(o.logger), optimistic.WithObserver(o.observer)),
		now:      time.Now,
	}
}

// Open fetches post id and starts tracking it.
func (f *Feed) Open(ctx context.Context, id int64) (models.Post, error) {
	p, err := f.api.GetPost(ctx, id)
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.NotFound() {
			f.notifier.Notify(ctx, notice.LevelError, MsgPostNotFound)
		} else {
			f.notifier.Notify(ctx, notice.LevelError, MsgPostLoadError)
		}
		return models.Post{}, err
	}
	if err := f.items.Put(p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// Post returns the tracked post id.
func (f *Feed) Post(id int64) (models.Post, bool) {
	return f.items.Get(models.Key(id))
}

// Posts returns the tracked posts, newest first.
func (f *Feed) Posts() []models.Post {
	return f.items.Items()
}

// Likes returns the like state of post id as currently shown.
func (f *Feed) Likes(id int64) (models.LikeState, bool) {
	p, ok := f.items.Get(models.Key(id))
	if !ok {
		return models.LikeState{}, false
	}
	return p.LikeState(), true
}

// likePatch flips Liked and moves Likes by one in the same direction.
var likePatch = optimistic.Fields(
	func(p models.Post) models.Post {
		if p.Liked {
			p.Likes--
		} else {
			p.Likes++
		}
		p.Liked = !p.Liked
		return p
	},
	func(cur, prior models.Post) models.Post {
		cur.Liked = prior.Liked
		cur.Likes = prior.Likes
		return cur
	},
)

// ToggleLike flips the like of post id at once and then asks the backend.
// The backend's answer replaces both fields; a failure reverts them.
// Without a signed-in user nothing changes and session.ErrAuthRequired is
// returned.
func (f *Feed) ToggleLike(ctx context.Context, id int64) (models.LikeState, error) {
	if !f.session.Authenticated() {
		f.notifier.Notify(ctx, notice.LevelWarning, MsgLoginToLike)
		return models.LikeState{}, session.ErrAuthRequired
	}

	key := models.Key(id)
	var echo models.LikeState
	err := f.items.MutateField(ctx, key, likePatch, func(ctx context.Context) error {
		s, err := f.api.ToggleLike(ctx, id)
		echo = s
		return err
	})
	if err != nil {
		f.notifier.Notify(ctx, notice.LevelError, MsgLikeFailed)
		return models.LikeState{}, err
	}

	if p, ok := f.items.Get(key); ok {
		p.Liked, p.Likes = echo.Liked, echo.Count
		if err := f.items.Overwrite(key, p); err != nil {
			f.logger.Debug(ctx, "like echo not applied", "post", id, "error", err)
		}
	}
	return echo, nil
}

// Draft is a post before submission.
type Draft struct {
	Content string
	Media   []models.Attachment `validate:"max=3"`
}

var draftMessages = map[string]string{
	"Media.max": MsgTooManyFiles,
}

// Validate reports the first problem with d, if any.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Content) == "" && len(d.Media) == 0 {
		return common.Invalid(MsgPostEmpty)
	}
	return common.Validate(d, draftMessages)
}

// Create shows the draft at the head of the feed and submits it. Invalid
// drafts are rejected before any request.
func (f *Feed) Create(ctx context.Context, d Draft) (models.Post, error) {
	if !f.session.Authenticated() {
		f.notifier.Notify(ctx, notice.LevelWarning, MsgLoginToPost)
		return models.Post{}, session.ErrAuthRequired
	}
	if err := d.Validate(); err != nil {
		f.notifier.Notify(ctx, notice.LevelError, err.Error())
		return models.Post{}, err
	}

	draft := models.Post{
		User:      f.session.Current().User,
		Content:   d.Content,
		CreatedAt: f.now(),
	}
	_, p, err := f.items.InsertOptimistic(ctx, draft, func(ctx context.Context) (models.Post, error) {
		return f.api.CreatePost(ctx, d.Content, d.Media)
	})
	if err != nil {
		msg := MsgPostFailed
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Kind == client.KindBadRequest && apiErr.Message != "" {
			msg = apiErr.Message
		}
		f.notifier.Notify(ctx, notice.LevelError, msg)
		return models.Post{}, err
	}
	f.notifier.Notify(ctx, notice.LevelSuccess, MsgPostCreated)
	return p, nil
}

// Pending reports the unconfirmed mutation of post id.
func (f *Feed) Pending(id int64) optimistic.PendingOp {
	return f.items.Pending(models.Key(id))
}

// Close stops tracking; results of calls still in flight are dropped.
func (f *Feed) Close() {
	f.items.Close()
}
