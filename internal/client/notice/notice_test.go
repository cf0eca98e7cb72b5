package notice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuncAndRecorder(t *testing.T) {
	var got []string
	f := Func(func(_ context.Context, l Level, msg string) { got = append(got, l.String()+":"+msg) })
	f.Notify(context.Background(), LevelSuccess, "Notification deleted")
	f.Notify(context.Background(), LevelError, "Failed to delete notification")
	assert.Equal(t, []string{"success:Notification deleted", "error:Failed to delete notification"}, got)

	r := &Recorder{}
	r.Notify(context.Background(), LevelWarning, "careful")
	Discard.Notify(context.Background(), LevelInfo, "dropped")
	assert.Equal(t, []string{"careful"}, r.Messages())
	assert.Equal(t, LevelWarning, r.Notices[0].Level)
	assert.Equal(t, "info", Level(42).String())
}
