package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/notice"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	List    []models.Notification
	ListErr error

	MarkErr    error
	MarkAllErr error
	DeleteErr  error
	Hook       func()

	Calls []string
}

func (f *fakeAPI) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	f.Calls = append(f.Calls, "list")
	return append([]models.Notification(nil), f.List...), f.ListErr
}

func (f *fakeAPI) MarkNotificationRead(ctx context.Context, id int64) error {
	f.Calls = append(f.Calls, "read "+models.Key(id))
	f.hook()
	return f.MarkErr
}

func (f *fakeAPI) MarkAllNotificationsRead(ctx context.Context) error {
	f.Calls = append(f.Calls, "read-all")
	f.hook()
	return f.MarkAllErr
}

func (f *fakeAPI) DeleteNotification(ctx context.Context, id int64) error {
	f.Calls = append(f.Calls, "delete "+models.Key(id))
	f.hook()
	return f.DeleteErr
}

func (f *fakeAPI) hook() {
	if f.Hook != nil {
		f.Hook()
	}
}

var base = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func sample() []models.Notification {
	return []models.Notification{
		{ID: 5, Message: "old", Read: false, CreatedAt: base},
		{ID: 9, Message: "newest", Read: false, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 7, Message: "middle", Read: true, CreatedAt: base.Add(time.Hour)},
	}
}

func ids(items []models.Notification) []int64 {
	out := make([]int64, len(items))
	for i, n := range items {
		out[i] = n.ID
	}
	return out
}

func loaded(t *testing.T, api *fakeAPI, opts ...Option) *Inbox {
	t.Helper()
	in := NewInbox(api, opts...)
	require.NoError(t, in.Load(context.Background()))
	return in
}

func TestLoad_NewestFirst(t *testing.T) {
	in := loaded(t, &fakeAPI{List: sample()})

	assert.Equal(t, []int64{9, 7, 5}, ids(in.Items()))
	assert.Equal(t, 2, in.UnreadCount())
}

func TestLoad_Failure(t *testing.T) {
	rec := &notice.Recorder{}
	in := NewInbox(&fakeAPI{ListErr: &client.APIError{Kind: client.KindNetwork}}, WithNotifier(rec))

	require.Error(t, in.Load(context.Background()))
	assert.Equal(t, []string{MsgLoadFailed}, rec.Messages())
}

func TestMarkRead(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample()}
	in := loaded(t, api, WithNotifier(rec))

	api.Hook = func() {
		assert.Equal(t, 1, in.UnreadCount(), "unread count follows the optimistic flag")
	}
	require.NoError(t, in.MarkRead(context.Background(), 9))

	n, _ := in.Get(9)
	assert.True(t, n.Read)
	assert.Equal(t, 1, in.UnreadCount())
	assert.Equal(t, []string{MsgMarkedRead}, rec.Messages())
}

func TestMarkRead_FailureReverts(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample(), MarkErr: &client.APIError{Kind: client.KindServer, StatusCode: 500}}
	in := loaded(t, api, WithNotifier(rec))
	before := in.Items()

	require.Error(t, in.MarkRead(context.Background(), 5))

	assert.Equal(t, before, in.Items())
	assert.Equal(t, 2, in.UnreadCount())
	assert.Equal(t, []string{MsgMarkReadFailed}, rec.Messages())
}

func TestMarkRead_ReloadDuringCallIsStillSuccess(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample()}
	in := loaded(t, api, WithNotifier(rec))

	api.Hook = func() { require.NoError(t, in.Load(context.Background())) }
	require.NoError(t, in.MarkRead(context.Background(), 9))

	n, _ := in.Get(9)
	assert.False(t, n.Read, "the reloaded copy is kept")
	assert.Equal(t, []string{MsgMarkedRead}, rec.Messages())
}

func TestMarkAllRead_DuringMarkReadKeepsItCurrent(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample()}
	in := loaded(t, api, WithNotifier(rec))

	api.Hook = func() {
		api.Hook = nil
		require.NoError(t, in.MarkAllRead(context.Background()))
	}
	require.NoError(t, in.MarkRead(context.Background(), 5))

	assert.Zero(t, in.UnreadCount())
	assert.Equal(t, optimistic.PendingNone, in.Pending(5))
	assert.Equal(t, []string{MsgAllMarkedRead, MsgMarkedRead}, rec.Messages())
}

func TestDelete_FailureRestoresPosition(t *testing.T) {
	api := &fakeAPI{List: sample(), DeleteErr: &client.APIError{Kind: client.KindServer, StatusCode: 503}}
	in := loaded(t, api)

	api.Hook = func() {
		assert.Equal(t, []int64{9, 5}, ids(in.Items()))
		assert.Equal(t, optimistic.PendingDelete, in.Pending(7))
	}
	require.Error(t, in.Delete(context.Background(), 7))

	assert.Equal(t, []int64{9, 7, 5}, ids(in.Items()))
}

func TestDelete_Success(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample()}
	in := loaded(t, api, WithNotifier(rec))

	require.NoError(t, in.Delete(context.Background(), 9))
	assert.Equal(t, []int64{7, 5}, ids(in.Items()))
	assert.Equal(t, 1, in.UnreadCount())
	assert.Equal(t, []string{MsgDeleted}, rec.Messages())
}

func TestMarkAllRead(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample()}
	in := loaded(t, api, WithNotifier(rec))

	api.Hook = func() { assert.Zero(t, in.UnreadCount(), "flags flip before the call") }
	require.NoError(t, in.MarkAllRead(context.Background()))

	assert.Zero(t, in.UnreadCount())
	assert.Equal(t, []int64{9, 7, 5}, ids(in.Items()))
	assert.Equal(t, []string{MsgAllMarkedRead}, rec.Messages())
}

func TestMarkAllRead_FailureKeepsLocalFlip(t *testing.T) {
	rec := &notice.Recorder{}
	api := &fakeAPI{List: sample(), MarkAllErr: &client.APIError{Kind: client.KindServer, StatusCode: 500}}
	in := loaded(t, api, WithNotifier(rec))

	err := in.MarkAllRead(context.Background())
	require.ErrorIs(t, err, client.ErrServer)

	assert.Zero(t, in.UnreadCount())
	assert.Equal(t, []string{MsgMarkAllReadFailed}, rec.Messages())
}

func TestClose_DiscardsInFlightRollback(t *testing.T) {
	api := &fakeAPI{List: sample(), DeleteErr: &client.APIError{Kind: client.KindNetwork}}
	in := loaded(t, api)
	api.Hook = in.Close

	err := in.Delete(context.Background(), 5)
	require.ErrorIs(t, err, optimistic.ErrStale)
	assert.Empty(t, in.Items())
}
