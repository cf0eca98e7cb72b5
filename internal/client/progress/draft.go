package progress

import (
	"strings"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
	"github.com/dmitrijs2005/skillshare/internal/common"
)

const (
	MsgTitleEmpty       = "Title cannot be empty"
	MsgTopicEmpty       = "Topic cannot be empty"
	MsgAttachmentsValid = "One or more attachment URLs are invalid"
	MsgStatusInvalid    = "Invalid status"
	MsgLevelInvalid     = "Invalid skill level"
	MsgVisibilityValid  = "Invalid visibility"
)

// Draft is a progress update as entered by the user.
type Draft struct {
	Title       string                `validate:"required"`
	Topic       string                `validate:"required"`
	Description string
	Status      models.ProgressStatus `validate:"oneof=PLANNED IN_PROGRESS COMPLETED"`
	SkillLevel  models.SkillLevel     `validate:"oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Attachments []string              `validate:"dive,url"`
	Visibility  models.Visibility     `validate:"oneof=PUBLIC PRIVATE FRIENDS"`
	Tags        []string
}

var draftMessages = map[string]string{
	"Title":       MsgTitleEmpty,
	"Topic":       MsgTopicEmpty,
	"Attachments": MsgAttachmentsValid,
	"Status":      MsgStatusInvalid,
	"SkillLevel":  MsgLevelInvalid,
	"Visibility":  MsgVisibilityValid,
}

// NewDraft returns an empty draft with the form defaults.
func NewDraft() Draft {
	return Draft{
		Status:      models.StatusInProgress,
		SkillLevel:  models.SkillBeginner,
		Visibility:  models.VisibilityPublic,
		Attachments: []string{},
		Tags:        []string{},
	}
}

// DraftFrom returns a draft prefilled from an existing update.
func DraftFrom(u models.ProgressUpdate) Draft {
	d := NewDraft()
	d.Title = u.Title
	d.Topic = u.Topic
	d.Description = u.Description
	if u.Status != "" {
		d.Status = u.Status
	}
	if u.SkillLevel != "" {
		d.SkillLevel = u.SkillLevel
	}
	if u.Visibility != "" {
		d.Visibility = u.Visibility
	}
	d.Attachments = append(d.Attachments, u.Attachments...)
	d.Tags = append(d.Tags, u.Tags...)
	return d
}

// ParseTags splits a comma-separated tag list, dropping blanks.
func ParseTags(s string) []string {
	return splitTrim(strings.Split(s, ","))
}

func splitTrim(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Normalize trims the text fields and drops blank attachments and tags.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Topic = strings.TrimSpace(d.Topic)
	d.Description = strings.TrimSpace(d.Description)
	d.Attachments = splitTrim(d.Attachments)
	d.Tags = splitTrim(d.Tags)
	return d
}

// Validate reports the first problem with the normalized draft. Any bad
// attachment yields the single aggregated attachment message.
func (d Draft) Validate() error {
	return common.Validate(d.Normalize(), draftMessages)
}

// Payload returns the request body for the normalized draft.
func (d Draft) Payload() models.ProgressPayload {
	n := d.Normalize()
	return models.ProgressPayload{
		Title:       n.Title,
		Topic:       n.Topic,
		Description: n.Description,
		Status:      n.Status,
		SkillLevel:  n.SkillLevel,
		Attachments: n.Attachments,
		Visibility:  n.Visibility,
		Tags:        n.Tags,
	}
}
