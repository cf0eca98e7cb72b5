package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
)

// Notifications reloads and prints the inbox.
func (a *App) Notifications(ctx context.Context) error {
	if err := a.inbox.Load(ctx); err != nil {
		return err
	}

	items := a.inbox.Items()
	if len(items) == 0 {
		a.println("No notifications")
		return nil
	}
	for _, n := range items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		line := fmt.Sprintf("%s %d  %s  %s", mark, n.ID, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Message)
		if op := a.inbox.Pending(n.ID); op != optimistic.PendingNone {
			line += fmt.Sprintf(" (%s)", op)
		}
		a.println(line)
	}
	a.println(fmt.Sprintf("%d unread", a.inbox.UnreadCount()))
	return nil
}

func (a *App) MarkRead(ctx context.Context, id int64) error {
	return a.inbox.MarkRead(ctx, id)
}

func (a *App) MarkAllRead(ctx context.Context) error {
	return a.inbox.MarkAllRead(ctx)
}

func (a *App) DeleteNotification(ctx context.Context, id int64) error {
	return a.inbox.Delete(ctx, id)
}
