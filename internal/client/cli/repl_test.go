package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string, args ...any) error {
	call := name
	for _, a := range args {
		call += fmt.Sprintf(" %v", a)
	}
	f.calls = append(f.calls, call)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) LoginWithProvider(ctx context.Context, p string) error {
	return f.record("oauth", p)
}
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(ctx context.Context) error             { return f.record("whoami") }
func (f *fakeExec) Refresh(ctx context.Context) error            { return f.record("refresh") }
func (f *fakeExec) ShowPost(ctx context.Context, id int64) error { return f.record("post", id) }
func (f *fakeExec) Like(ctx context.Context, id int64) error     { return f.record("like", id) }
func (f *fakeExec) NewPost(ctx context.Context) error            { return f.record("newpost") }
func (f *fakeExec) Notifications(ctx context.Context) error      { return f.record("notifications") }
func (f *fakeExec) MarkRead(ctx context.Context, id int64) error { return f.record("read", id) }
func (f *fakeExec) MarkAllRead(ctx context.Context) error        { return f.record("readall") }
func (f *fakeExec) Progress(ctx context.Context) error           { return f.record("progress") }
func (f *fakeExec) AddProgress(ctx context.Context) error        { return f.record("addprogress") }
func (f *fakeExec) Stats(ctx context.Context) error              { return f.record("stats") }
func (f *fakeExec) EditProgress(ctx context.Context, id int64) error {
	return f.record("editprogress", id)
}
func (f *fakeExec) DeleteProgress(ctx context.Context, id int64) error {
	return f.record("delprogress", id)
}
func (f *fakeExec) DeleteNotification(ctx context.Context, id int64) error {
	return f.record("delnotif", id)
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func script(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, script(
		"login",
		"oauth google",
		"register",
		"whoami",
		"refresh",
		"post 7",
		"like 7",
		"newpost",
		"notifications",
		"read 3",
		"readall",
		"delnotif 4",
		"progress",
		"addprogress",
		"editprogress 5",
		"delprogress 6",
		"stats",
		"logout",
		"exit",
		"login",
	))

	assert.Equal(t, []string{
		"login", "oauth google", "register", "whoami", "refresh",
		"post 7", "like 7", "newpost",
		"notifications", "read 3", "readall", "delnotif 4",
		"progress", "addprogress", "editprogress 5", "delprogress 6",
		"stats", "logout",
	}, exec.calls, "nothing runs after exit")
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, script(
		"like",
		"read abc",
		"delprogress -1",
		"oauth",
		"foobar",
		"",
		"quit",
	))

	require.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: like <id>")
	assert.Contains(t, joined, "Usage: read <id>")
	assert.Contains(t, joined, "Usage: delprogress <id>")
	assert.Contains(t, joined, "Usage: oauth <provider>")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, script("help", "login", "help"))

	assert.Contains(t, *out, helpGuest)
	assert.Contains(t, *out, helpUser)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("whoami")))

	assert.Equal(t, []string{"whoami"}, exec.calls)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		args []string
		id   int64
		ok   bool
	}{
		{[]string{"12"}, 12, true},
		{nil, 0, false},
		{[]string{"0"}, 0, false},
		{[]string{"x"}, 0, false},
		{[]string{"1", "2"}, 0, false},
	}
	for _, tt := range tests {
		id, ok := parseID(tt.args)
		assert.Equal(t, tt.ok, ok, tt.args)
		assert.Equal(t, tt.id, id, tt.args)
	}
}
