// Package notice carries short user-facing messages (success and failure
// toasts) from the domain components to whatever shows them.
package notice

import "context"

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows msg to the user.
type Notifier interface {
	Notify(ctx context.Context, level Level, msg string)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, level Level, msg string)

func (f Func) Notify(ctx context.Context, level Level, msg string) { f(ctx, level, msg) }

type discard struct{}

func (discard) Notify(context.Context, Level, string) {}

// Discard drops every notice.
var Discard Notifier = discard{}

// Recorder keeps notices in memory, mostly for tests.
type Recorder struct {
	Notices []Notice
}

type Notice struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(_ context.Context, level Level, msg string) {
	r.Notices = append(r.Notices, Notice{Level: level, Message: msg})
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	out := make([]string, len(r.Notices))
	for i, n := range r.Notices {
		out[i] = n.Message
	}
	return out
}
