package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Login(ctx context.Context) error
	LoginWithProvider(ctx context.Context, provider string) error
	Register(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error

	ShowPost(ctx context.Context, id int64) error
	Like(ctx context.Context, id int64) error
	NewPost(ctx context.Context) error

	Notifications(ctx context.Context) error
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error

	Progress(ctx context.Context) error
	AddProgress(ctx context.Context) error
	EditProgress(ctx context.Context, id int64) error
	DeleteProgress(ctx context.Context, id int64) error

	Stats(ctx context.Context) error
}

const (
	helpGuest = "Available commands: login, oauth <provider>, register, refresh, post <id>, stats, exit"
	helpUser  = "Available commands: whoami, refresh, post <id>, like <id>, newpost, " +
		"notifications, read <id>, readall, delnotif <id>, " +
		"progress, addprogress, editprogress <id>, delprogress <id>, stats, logout, exit"
)

// idCommands take a single numeric id argument.
var idCommands = map[string]func(execIface, context.Context, int64) error{
	"post":         execIface.ShowPost,
	"like":         execIface.Like,
	"read":         execIface.MarkRead,
	"delnotif":     execIface.DeleteNotification,
	"editprogress": execIface.EditProgress,
	"delprogress":  execIface.DeleteProgress,
}

// plainCommands take no arguments.
var plainCommands = map[string]func(execIface, context.Context) error{
	"login":         execIface.Login,
	"register":      execIface.Register,
	"logout":        execIface.Logout,
	"whoami":        execIface.WhoAmI,
	"refresh":       execIface.Refresh,
	"newpost":       execIface.NewPost,
	"notifications": execIface.Notifications,
	"readall":       execIface.MarkAllRead,
	"progress":      execIface.Progress,
	"addprogress":   execIface.AddProgress,
	"stats":         execIface.Stats,
}

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
// The prompt shows the current status (from statusFn). Commands taking an
// id print a usage line when it is missing or not a number. Errors returned
// by handlers are ignored here; handlers report their own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ss %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if fn, ok := plainCommands[cmd]; ok {
			_ = fn(a, ctx)
			continue
		}
		if fn, ok := idCommands[cmd]; ok {
			id, ok := parseID(args)
			if !ok {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			_ = fn(a, ctx, id)
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "oauth":
			if len(args) != 1 {
				printlnFn("Usage: oauth <provider>")
				continue
			}
			_ = a.LoginWithProvider(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
