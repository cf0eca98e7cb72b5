package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
)

const (
	pathCurrentUser       = "/api/users/current"
	pathRegister          = "/api/auth/register"
	pathLogin             = "/api/auth/login"
	pathLogout            = "/api/auth/logout"
	pathOAuthAuthorize    = "/oauth2/authorization/"
	pathCreatePost        = "/api/posts/posts"
	pathPosts             = "/api/posts/"
	pathNotifications     = "/api/notifications"
	pathNotificationsRead = "/api/notifications/read-all"
	pathProgress          = "/api/progress-updates"
	pathProgressAdd       = "/api/progress-updates/add"
)

// authResponse accepts both {"user": {...}} and a flat user object.
type authResponse struct {
	User  *models.User `json:"user"`
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
}

func (r authResponse) user() *models.User {
	if r.User != nil {
		return r.User
	}
	if r.ID != 0 || r.Email != "" {
		return &models.User{ID: r.ID, Name: r.Name, Email: r.Email}
	}
	return nil
}

func (g *Gateway) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := g.Get(ctx, pathCurrentUser, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login posts form-encoded credentials. The returned user is nil when the
// backend answers with an empty body.
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.User, error) {
	form := FormBody{"email": {email}, "password": {password}}
	var resp authResponse
	if err := g.Post(ctx, pathLogin, form, &resp); err != nil {
		return nil, err
	}
	return resp.user(), nil
}

func (g *Gateway) Register(ctx context.Context, form RegistrationForm) (*models.User, error) {
	body := NewMultipartBody().
		Field("name", form.Name).
		Field("email", form.Email).
		Field("password", form.Password)
	if form.Bio != "" {
		body.Field("bio", form.Bio)
	}
	if form.Avatar != nil {
		body.File("profilePicture", *form.Avatar)
	}

	var resp authResponse
	if err := g.Post(ctx, pathRegister, body, &resp); err != nil {
		return nil, err
	}
	return resp.user(), nil
}

func (g *Gateway) Logout(ctx context.Context) error {
	return g.Post(ctx, pathLogout, nil, nil)
}

// AuthorizationURL returns the external login URL for provider, e.g. "google".
func (g *Gateway) AuthorizationURL(provider string) (string, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" || strings.ContainsAny(provider, "/?#") {
		return "", fmt.Errorf("invalid provider %q", provider)
	}
	return g.resolve(pathOAuthAuthorize + provider), nil
}

func (g *Gateway) CreatePost(ctx context.Context, content string, media []models.Attachment) (models.Post, error) {
	body := NewMultipartBody().Field("content", content)
	for _, m := range media {
		body.File("mediaFiles", m)
	}

	var p models.Post
	if err := g.Post(ctx, pathCreatePost, body, &p); err != nil {
		return models.Post{}, err
	}
	if p.ID == 0 {
		return models.Post{}, noEntity(http.MethodPost, pathCreatePost)
	}
	return p, nil
}

func (g *Gateway) GetPost(ctx context.Context, id int64) (models.Post, error) {
	var p models.Post
	if err := g.Get(ctx, pathPosts+models.Key(id), &p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (g *Gateway) ToggleLike(ctx context.Context, id int64) (models.LikeState, error) {
	var s models.LikeState
	if err := g.Post(ctx, pathPosts+models.Key(id)+"/like", nil, &s); err != nil {
		return models.LikeState{}, err
	}
	return s, nil
}

func (g *Gateway) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var items []models.Notification
	if err := g.Get(ctx, pathNotifications, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Gateway) MarkNotificationRead(ctx context.Context, id int64) error {
	return g.Put(ctx, pathNotifications+"/"+models.Key(id)+"/read", nil, nil)
}

func (g *Gateway) MarkAllNotificationsRead(ctx context.Context) error {
	return g.Put(ctx, pathNotificationsRead, nil, nil)
}

func (g *Gateway) DeleteNotification(ctx context.Context, id int64) error {
	return g.Delete(ctx, pathNotifications+"/"+models.Key(id), nil)
}

func (g *Gateway) ListProgressUpdates(ctx context.Context) ([]models.ProgressUpdate, error) {
	var items []models.ProgressUpdate
	if err := g.Get(ctx, pathProgress, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *Gateway) CreateProgressUpdate(ctx context.Context, p models.ProgressPayload) (models.ProgressUpdate, error) {
	var out models.ProgressUpdate
	if err := g.Post(ctx, pathProgressAdd, p, &out); err != nil {
		return models.ProgressUpdate{}, err
	}
	if out.ID == 0 {
		return models.ProgressUpdate{}, noEntity(http.MethodPost, pathProgressAdd)
	}
	return out, nil
}

func (g *Gateway) UpdateProgressUpdate(ctx context.Context, id int64, p models.ProgressPayload) (models.ProgressUpdate, error) {
	var out models.ProgressUpdate
	if err := g.Put(ctx, pathProgress+"/"+models.Key(id), p, &out); err != nil {
		return models.ProgressUpdate{}, err
	}
	return out, nil
}

func (g *Gateway) DeleteProgressUpdate(ctx context.Context, id int64) error {
	return g.Delete(ctx, pathProgress+"/"+models.Key(id), nil)
}

// noEntity reports a 2xx create whose body did not carry the new entity.
// Without a server id the result cannot be told apart from other creates.
func noEntity(method, path string) error {
	return &APIError{Kind: KindServer, Method: method, Path: path, Message: "response carried no entity"}
}
