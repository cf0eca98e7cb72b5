package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/notice"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/dmitrijs2005/skillshare/internal/client/session"
	"github.com/dmitrijs2005/skillshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	user *models.User
}

func (s fakeSession) Current() session.Session {
	if s.user == nil {
		return session.Session{Status: session.StatusUnauthenticated}
	}
	return session.Session{Status: session.StatusAuthenticated, User: s.user}
}

func (s fakeSession) Authenticated() bool { return s.Current().Authenticated() }

var signedIn = fakeSession{user: &models.User{ID: 1, Name: "Ada"}}

// fakePosts implements client.PostsAPI. The server keeps its own like state
// per post and echoes it back like the real toggle endpoint.
type fakePosts struct {
	posts map[int64]models.Post

	ToggleErr  error
	ToggleHook func()
	CreateRet  models.Post
	CreateErr  error

	ToggleCalls int
	CreateCalls int
	LastContent string
	LastMedia   []models.Attachment
}

func newFakePosts(ps ...models.Post) *fakePosts {
	f := &fakePosts{posts: make(map[int64]models.Post)}
	for _, p := range ps {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePosts) GetPost(ctx context.Context, id int64) (models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return models.Post{}, &client.APIError{Kind: client.KindBadRequest, StatusCode: 404}
	}
	return p, nil
}

func (f *fakePosts) ToggleLike(ctx context.Context, id int64) (models.LikeState, error) {
	f.ToggleCalls++
	if f.ToggleHook != nil {
		f.ToggleHook()
	}
	if f.ToggleErr != nil {
		return models.LikeState{}, f.ToggleErr
	}
	p := f.posts[id]
	if p.Liked {
		p.Likes--
	} else {
		p.Likes++
	}
	p.Liked = !p.Liked
	f.posts[id] = p
	return p.LikeState(), nil
}

func (f *fakePosts) CreatePost(ctx context.Context, content string, media []models.Attachment) (models.Post, error) {
	f.CreateCalls++
	f.LastContent, f.LastMedia = content, media
	return f.CreateRet, f.CreateErr
}

var createdAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func openFeed(t *testing.T, api *fakePosts, sess session.Reader, opts ...Option) *Feed {
	t.Helper()
	f := NewFeed(api, sess, opts...)
	for id := range api.posts {
		_, err := f.Open(context.Background(), id)
		require.NoError(t, err)
	}
	return f
}

func TestToggleLike_OptimisticThenServerEcho(t *testing.T) {
	api := newFakePosts(models.Post{ID: 4, Likes: 10, CreatedAt: createdAt})
	f := openFeed(t, api, signedIn)

	api.ToggleHook = func() {
		s, _ := f.Likes(4)
		assert.Equal(t, models.LikeState{Liked: true, Count: 11}, s, "flipped before the call")
		assert.Equal(t, optimistic.PendingUpdate, f.Pending(4))
	}
	// Another client liked the post meanwhile; the server count wins.
	api.posts[4] = models.Post{ID: 4, Likes: 12, CreatedAt: createdAt}

	s, err := f.ToggleLike(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{Liked: true, Count: 13}, s)

	got, _ := f.Likes(4)
	assert.Equal(t, models.LikeState{Liked: true, Count: 13}, got)
}

func TestToggleLike_TwiceRestoresOriginal(t *testing.T) {
	api := newFakePosts(models.Post{ID: 4, Liked: false, Likes: 7, Content: "hello", CreatedAt: createdAt})
	f := openFeed(t, api, signedIn)
	before, _ := f.Post(4)

	_, err := f.ToggleLike(context.Background(), 4)
	require.NoError(t, err)
	_, err = f.ToggleLike(context.Background(), 4)
	require.NoError(t, err)

	after, _ := f.Post(4)
	assert.Equal(t, before, after)
}

func TestToggleLike_FailureReverts(t *testing.T) {
	api := newFakePosts(models.Post{ID: 4, Liked: true, Likes: 3, Content: "x", CreatedAt: createdAt})
	rec := &notice.Recorder{}
	f := openFeed(t, api, signedIn, WithNotifier(rec))
	before, _ := f.Post(4)
	api.ToggleErr = &client.APIError{Kind: client.KindServer, StatusCode: 500}

	_, err := f.ToggleLike(context.Background(), 4)
	require.ErrorIs(t, err, client.ErrServer)

	after, _ := f.Post(4)
	assert.Equal(t, before, after)
	assert.Equal(t, []string{MsgLikeFailed}, rec.Messages())
}

func TestToggleLike_RequiresAuthentication(t *testing.T) {
	api := newFakePosts(models.Post{ID: 4, Likes: 3, CreatedAt: createdAt})
	rec := &notice.Recorder{}
	f := openFeed(t, api, fakeSession{}, WithNotifier(rec))
	before, _ := f.Post(4)

	_, err := f.ToggleLike(context.Background(), 4)
	require.ErrorIs(t, err, session.ErrAuthRequired)

	after, _ := f.Post(4)
	assert.Equal(t, before, after)
	assert.Zero(t, api.ToggleCalls)
	assert.Equal(t, optimistic.PendingNone, f.Pending(4))
	assert.Equal(t, []string{MsgLoginToLike}, rec.Messages())
}

func TestToggleLike_UnknownPost(t *testing.T) {
	f := NewFeed(newFakePosts(), signedIn)
	_, err := f.ToggleLike(context.Background(), 99)
	assert.ErrorIs(t, err, optimistic.ErrNotFound)
}

func TestOpen_NotFound(t *testing.T) {
	rec := &notice.Recorder{}
	f := NewFeed(newFakePosts(), signedIn, WithNotifier(rec))

	_, err := f.Open(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, []string{MsgPostNotFound}, rec.Messages())
	assert.Empty(t, f.Posts())
}

func TestDraftValidation(t *testing.T) {
	file := models.Attachment{Name: "a.png", Data: []byte{1}}
	tests := []struct {
		name  string
		draft Draft
		want  string
	}{
		{"text only", Draft{Content: "hi"}, ""},
		{"media only", Draft{Media: []models.Attachment{file}}, ""},
		{"three files", Draft{Content: "x", Media: []models.Attachment{file, file, file}}, ""},
		{"empty", Draft{Content: "   "}, MsgPostEmpty},
		{"four files", Draft{Content: "x", Media: []models.Attachment{file, file, file, file}}, MsgTooManyFiles},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrLocalValidation)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestCreate_InvalidDraftNeverReachesNetwork(t *testing.T) {
	api := newFakePosts()
	f := NewFeed(api, signedIn)
	file := models.Attachment{Name: "a.png"}

	_, err := f.Create(context.Background(), Draft{Content: "x", Media: []models.Attachment{file, file, file, file}})
	require.ErrorIs(t, err, common.ErrLocalValidation)
	assert.Zero(t, api.CreateCalls)
	assert.Empty(t, f.Posts())
}

func TestCreate_Success(t *testing.T) {
	api := newFakePosts(models.Post{ID: 1, CreatedAt: createdAt})
	api.CreateRet = models.Post{ID: 2, Content: "new", CreatedAt: createdAt.Add(time.Hour)}
	rec := &notice.Recorder{}
	f := openFeed(t, api, signedIn, WithNotifier(rec))
	f.now = func() time.Time { return createdAt.Add(time.Hour) }

	media := []models.Attachment{{Name: "a.png", ContentType: "image/png", Data: []byte{1}}}
	p, err := f.Create(context.Background(), Draft{Content: "new", Media: media})
	require.NoError(t, err)

	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, "new", api.LastContent)
	assert.Equal(t, media, api.LastMedia)
	posts := f.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), posts[0].ID)
	assert.Equal(t, []string{MsgPostCreated}, rec.Messages())
}

func TestCreate_FailureRemovesDraft(t *testing.T) {
	api := newFakePosts(models.Post{ID: 1, CreatedAt: createdAt})
	api.CreateErr = &client.APIError{Kind: client.KindBadRequest, StatusCode: 400, Message: "Content too long"}
	rec := &notice.Recorder{}
	f := openFeed(t, api, signedIn, WithNotifier(rec))
	before := f.Posts()

	_, err := f.Create(context.Background(), Draft{Content: "x"})
	require.Error(t, err)
	assert.Equal(t, before, f.Posts())
	assert.Equal(t, []string{"Content too long"}, rec.Messages())
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	api := newFakePosts()
	f := NewFeed(api, fakeSession{})

	_, err := f.Create(context.Background(), Draft{Content: "x"})
	assert.True(t, errors.Is(err, session.ErrAuthRequired))
	assert.Zero(t, api.CreateCalls)
}

func TestClose_DropsInFlightEcho(t *testing.T) {
	rec := &notice.Recorder{}
	api := newFakePosts(models.Post{ID: 4, Likes: 1, CreatedAt: createdAt})
	f := openFeed(t, api, signedIn, WithNotifier(rec))
	api.ToggleHook = f.Close

	s, err := f.ToggleLike(context.Background(), 4)
	require.NoError(t, err, "the backend accepted the like")
	assert.Equal(t, models.LikeState{Liked: true, Count: 2}, s)
	assert.Empty(t, f.Posts())
	assert.Empty(t, rec.Messages())
}

func TestClose_DropsInFlightRollback(t *testing.T) {
	rec := &notice.Recorder{}
	api := newFakePosts(models.Post{ID: 4, Likes: 1, CreatedAt: createdAt})
	api.ToggleErr = &client.APIError{Kind: client.KindNetwork}
	f := openFeed(t, api, signedIn, WithNotifier(rec))
	api.ToggleHook = f.Close

	_, err := f.ToggleLike(context.Background(), 4)
	require.ErrorIs(t, err, optimistic.ErrStale)
	assert.ErrorIs(t, err, client.ErrNetwork)
	assert.Empty(t, f.Posts())
	assert.Equal(t, []string{MsgLikeFailed}, rec.Messages())
}
