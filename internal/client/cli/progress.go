package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
	"github.com/dmitrijs2005/skillshare/internal/client/progress"
)

// Progress reloads and prints the progress updates.
func (a *App) Progress(ctx context.Context) error {
	if err := a.progress.Load(ctx); err != nil {
		return err
	}

	items := a.progress.Items()
	if len(items) == 0 {
		a.println("No progress updates")
		return nil
	}
	for _, u := range items {
		a.printProgress(u)
	}
	return nil
}

// AddProgress prompts for a new update. Empty answers keep the defaults.
func (a *App) AddProgress(ctx context.Context) error {
	d := progress.NewDraft()
	var err error

	if d.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if d.Topic, err = getSimpleText(a.reader, "Topic", a.out); err != nil {
		return err
	}
	if d.Description, err = getSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}

	status, _, err := GetWithDefault(a.reader, "Status (PLANNED, IN_PROGRESS, COMPLETED)", string(d.Status), a.out)
	if err != nil {
		return err
	}
	level, _, err := GetWithDefault(a.reader, "Skill level (BEGINNER, INTERMEDIATE, ADVANCED)", string(d.SkillLevel), a.out)
	if err != nil {
		return err
	}
	visibility, _, err := GetWithDefault(a.reader, "Visibility (PUBLIC, PRIVATE, FRIENDS)", string(d.Visibility), a.out)
	if err != nil {
		return err
	}
	attachments, err := getSimpleText(a.reader, "Attachment URLs, comma separated (optional)", a.out)
	if err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags, comma separated (optional)", a.out)
	if err != nil {
		return err
	}

	d.Status = models.ProgressStatus(strings.ToUpper(status))
	d.SkillLevel = models.SkillLevel(strings.ToUpper(level))
	d.Visibility = models.Visibility(strings.ToUpper(visibility))
	d.Attachments = progress.ParseTags(attachments)
	d.Tags = progress.ParseTags(tags)

	u, err := a.progress.Create(ctx, d)
	if err != nil {
		return err
	}
	a.printProgress(u)
	return nil
}

// EditProgress walks through the fields of update id. Empty answers leave a
// field untouched; "-" clears an optional one.
func (a *App) EditProgress(ctx context.Context, id int64) error {
	cur, ok := a.progress.Get(id)
	if !ok {
		a.println(fmt.Sprintf("Progress update %d is not loaded; run 'progress' first", id))
		return optimistic.ErrNotFound
	}

	var ch progress.Changes
	ask := func(prompt, current string) (*string, error) {
		v, changed, err := GetWithDefault(a.reader, prompt, current, a.out)
		if err != nil || !changed {
			return nil, err
		}
		if v == "-" {
			v = ""
		}
		return &v, nil
	}

	var err error
	if ch.Title, err = ask("Title", cur.Title); err != nil {
		return err
	}
	if ch.Topic, err = ask("Topic", cur.Topic); err != nil {
		return err
	}
	if ch.Description, err = ask("Description", cur.Description); err != nil {
		return err
	}
	status, err := ask("Status", string(cur.Status))
	if err != nil {
		return err
	}
	if status != nil {
		v := models.ProgressStatus(strings.ToUpper(*status))
		ch.Status = &v
	}
	level, err := ask("Skill level", string(cur.SkillLevel))
	if err != nil {
		return err
	}
	if level != nil {
		v := models.SkillLevel(strings.ToUpper(*level))
		ch.SkillLevel = &v
	}
	visibility, err := ask("Visibility", string(cur.Visibility))
	if err != nil {
		return err
	}
	if visibility != nil {
		v := models.Visibility(strings.ToUpper(*visibility))
		ch.Visibility = &v
	}
	attachments, err := ask("Attachment URLs", strings.Join(cur.Attachments, ", "))
	if err != nil {
		return err
	}
	if attachments != nil {
		ch.Attachments = progress.ParseTags(*attachments)
	}
	tags, err := ask("Tags", strings.Join(cur.Tags, ", "))
	if err != nil {
		return err
	}
	if tags != nil {
		ch.Tags = progress.ParseTags(*tags)
	}

	if ch.Empty() {
		a.println("Nothing changed")
		return nil
	}

	u, err := a.progress.Edit(ctx, id, ch)
	if err != nil {
		return err
	}
	a.printProgress(u)
	return nil
}

func (a *App) DeleteProgress(ctx context.Context, id int64) error {
	return a.progress.Delete(ctx, id)
}

func (a *App) printProgress(u models.ProgressUpdate) {
	line := fmt.Sprintf("%d  %s [%s] %s, %s, %s", u.ID, u.Title, u.Topic, u.Status, u.SkillLevel, u.Visibility)
	if op := a.progress.Pending(u.ID); op != optimistic.PendingNone {
		line += fmt.Sprintf(" (%s)", op)
	}
	a.println(line)
	if u.Description != "" {
		a.println("   ", u.Description)
	}
	if len(u.Tags) > 0 {
		a.println("    tags:", strings.Join(u.Tags, ", "))
	}
	for _, at := range u.Attachments {
		a.println("    link:", at)
	}
}
