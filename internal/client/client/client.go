package client

import (
	"context"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
)

// AuthAPI covers the session and identity endpoints.
type AuthAPI interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, form RegistrationForm) (*models.User, error)
	Logout(ctx context.Context) error
	AuthorizationURL(provider string) (string, error)
	ClearCredentials()
}

// PostsAPI covers post creation, retrieval and likes.
type PostsAPI interface {
	CreatePost(ctx context.Context, content string, media []models.Attachment) (models.Post, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	ToggleLike(ctx context.Context, id int64) (models.LikeState, error)
}

// NotificationsAPI covers the inbox endpoints.
type NotificationsAPI interface {
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id int64) error
}

// ProgressAPI covers progress-update CRUD.
type ProgressAPI interface {
	ListProgressUpdates(ctx context.Context) ([]models.ProgressUpdate, error)
	CreateProgressUpdate(ctx context.Context, p models.ProgressPayload) (models.ProgressUpdate, error)
	UpdateProgressUpdate(ctx context.Context, id int64, p models.ProgressPayload) (models.ProgressUpdate, error)
	DeleteProgressUpdate(ctx context.Context, id int64) error
}

// Client is the full backend contract implemented by Gateway.
type Client interface {
	AuthAPI
	PostsAPI
	NotificationsAPI
	ProgressAPI
}

// RegistrationForm is the multipart payload of the register endpoint.
type RegistrationForm struct {
	Name     string
	Email    string
	Password string
	Bio      string
	Avatar   *models.Attachment
}

var _ Client = (*Gateway)(nil)
