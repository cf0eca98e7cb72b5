package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/models"
)

// fakeAPI implements client.AuthAPI for store tests.
type fakeAPI struct {
	mu sync.Mutex

	CurrentRet *models.User
	CurrentErr error

	// CurrentBlock, when set, is received from before CurrentUser returns.
	CurrentBlock   chan struct{}
	CurrentEntered chan struct{}

	LoginRet *models.User
	LoginErr error

	RegisterRet *models.User
	RegisterErr error

	LogoutErr error

	CurrentCalls int
	LoginCalls   int
	LogoutCalls  int
	ClearCalls   int

	LastEmail    string
	LastPassword string
	LastForm     client.RegistrationForm
}

func (f *fakeAPI) CurrentUser(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.CurrentCalls++
	block, entered := f.CurrentBlock, f.CurrentEntered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.CurrentRet, f.CurrentErr
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(ctx context.Context, form client.RegistrationForm) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastForm = form
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeAPI) AuthorizationURL(provider string) (string, error) {
	if provider == "bad/provider" {
		return "", &client.APIError{Kind: client.KindBadRequest, Message: "invalid provider"}
	}
	return "http://localhost:8081/oauth2/authorization/" + provider, nil
}

func (f *fakeAPI) ClearCredentials() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearCalls++
}

func (f *fakeAPI) currentCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CurrentCalls
}

// memCache is an in-memory Cache.
type memCache struct {
	mu      sync.Mutex
	user    *models.User
	LoadErr error
	Saves   int
	Clears  int
}

func (c *memCache) Load(ctx context.Context) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.LoadErr != nil {
		return nil, c.LoadErr
	}
	if c.user == nil {
		return nil, nil
	}
	u := *c.user
	return &u, nil
}

func (c *memCache) Save(ctx context.Context, u *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *u
	c.user = &cp
	c.Saves++
	return nil
}

func (c *memCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.LoadErr = nil
	c.Clears++
	return nil
}

func (c *memCache) stored() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}
