package progress

import (
	"slices"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/client/optimistic"
)

// Changes lists the fields an edit sets. Nil fields are left alone.
type Changes struct {
	Title       *string
	Topic       *string
	Description *string
	Status      *models.ProgressStatus
	SkillLevel  *models.SkillLevel
	Attachments []string
	Visibility  *models.Visibility
	Tags        []string
}

var _ optimistic.Patch[models.ProgressUpdate] = Changes{}

// Empty reports whether c changes nothing.
func (c Changes) Empty() bool {
	return c.Title == nil && c.Topic == nil && c.Description == nil &&
		c.Status == nil && c.SkillLevel == nil && c.Attachments == nil &&
		c.Visibility == nil && c.Tags == nil
}

func (c Changes) apply(u models.ProgressUpdate) models.ProgressUpdate {
	if c.Title != nil {
		u.Title = *c.Title
	}
	if c.Topic != nil {
		u.Topic = *c.Topic
	}
	if c.Description != nil {
		u.Description = *c.Description
	}
	if c.Status != nil {
		u.Status = *c.Status
	}
	if c.SkillLevel != nil {
		u.SkillLevel = *c.SkillLevel
	}
	if c.Attachments != nil {
		u.Attachments = slices.Clone(c.Attachments)
	}
	if c.Visibility != nil {
		u.Visibility = *c.Visibility
	}
	if c.Tags != nil {
		u.Tags = slices.Clone(c.Tags)
	}
	return u
}

// Apply implements optimistic.Patch.
func (c Changes) Apply(u models.ProgressUpdate) models.ProgressUpdate {
	return c.apply(u)
}

// Restore implements optimistic.Patch.
func (c Changes) Restore(cur, prior models.ProgressUpdate) models.ProgressUpdate {
	if c.Title != nil {
		cur.Title = prior.Title
	}
	if c.Topic != nil {
		cur.Topic = prior.Topic
	}
	if c.Description != nil {
		cur.Description = prior.Description
	}
	if c.Status != nil {
		cur.Status = prior.Status
	}
	if c.SkillLevel != nil {
		cur.SkillLevel = prior.SkillLevel
	}
	if c.Attachments != nil {
		cur.Attachments = prior.Attachments
	}
	if c.Visibility != nil {
		cur.Visibility = prior.Visibility
	}
	if c.Tags != nil {
		cur.Tags = prior.Tags
	}
	return cur
}
