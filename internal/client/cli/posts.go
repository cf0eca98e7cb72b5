package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/posts"
	"github.com/dmitrijs2005/skillshare/internal/filex"
)

// ShowPost fetches post id and prints it.
func (a *App) ShowPost(ctx context.Context, id int64) error {
	p, err := a.feed.Open(ctx, id)
	if err != nil {
		return err
	}
	a.printPost(p)
	return nil
}

// Like toggles the like of post id, opening it first if needed.
func (a *App) Like(ctx context.Context, id int64) error {
	if _, ok := a.feed.Post(id); !ok && a.isLoggedIn() {
		if _, err := a.feed.Open(ctx, id); err != nil {
			return err
		}
	}

	s, err := a.feed.ToggleLike(ctx, id)
	if err != nil {
		return err
	}
	verb := "Unliked"
	if s.Liked {
		verb = "Liked"
	}
	a.println(fmt.Sprintf("%s post %d (%d likes)", verb, id, s.Count))
	return nil
}

// NewPost prompts for content and up to three media files.
func (a *App) NewPost(ctx context.Context) error {
	content, err := GetMultiline(a.reader, "Post content", a.out)
	if err != nil {
		return err
	}
	paths, err := getSimpleText(a.reader, "Media file paths, comma separated (optional)", a.out)
	if err != nil {
		return err
	}

	d := posts.Draft{Content: content}
	for _, p := range strings.Split(paths, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		att, err := filex.LoadAttachment(p)
		if err != nil {
			a.println(err.Error())
			return err
		}
		d.Media = append(d.Media, att)
	}

	p, err := a.feed.Create(ctx, d)
	if err != nil {
		return err
	}
	a.printPost(p)
	return nil
}

func (a *App) printPost(p models.Post) {
	author := "unknown"
	if p.User != nil {
		author = p.User.DisplayName()
	}
	heart := "♡"
	if p.Liked {
		heart = "♥"
	}
	a.println(fmt.Sprintf("#%d by %s, %s", p.ID, author, p.CreatedAt.Local().Format("2006-01-02 15:04")))
	a.println(p.Content)
	for _, u := range p.MediaURLs {
		a.println("  media:", u)
	}
	a.println(fmt.Sprintf("%s %d  comments: %d", heart, p.Likes, len(p.Comments)))
}
