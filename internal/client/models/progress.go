package models

import "time"

type ProgressStatus string

const (
	StatusPlanned    ProgressStatus = "PLANNED"
	StatusInProgress ProgressStatus = "IN_PROGRESS"
	StatusCompleted  ProgressStatus = "COMPLETED"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityFriends Visibility = "FRIENDS"
)

// ProgressUpdate is a learning progress entry posted by a user.
type ProgressUpdate struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	Description string         `json:"description,omitempty"`
	Status      ProgressStatus `json:"status"`
	SkillLevel  SkillLevel     `json:"skillLevel"`
	Attachments []string       `json:"attachments"`
	Visibility  Visibility     `json:"visibility"`
	Tags        []string       `json:"tags"`
	UserName    string         `json:"userName,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (p ProgressUpdate) Key() string          { return Key(p.ID) }
func (p ProgressUpdate) Timestamp() time.Time { return p.CreatedAt }

// ProgressPayload is the JSON body of create and update requests.
type ProgressPayload struct {
	Title       string         `json:"title"`
	Topic       string         `json:"topic"`
	Description string         `json:"description"`
	Status      ProgressStatus `json:"status"`
	SkillLevel  SkillLevel     `json:"skillLevel"`
	Attachments []string       `json:"attachments"`
	Visibility  Visibility     `json:"visibility"`
	Tags        []string       `json:"tags"`
}

// Payload returns the request body describing p.
func (p ProgressUpdate) Payload() ProgressPayload {
	return ProgressPayload{
		Title:       p.Title,
		Topic:       p.Topic,
		Description: p.Description,
		Status:      p.Status,
		SkillLevel:  p.SkillLevel,
		Attachments: append([]string{}, p.Attachments...),
		Visibility:  p.Visibility,
		Tags:        append([]string{}, p.Tags...),
	}
}
