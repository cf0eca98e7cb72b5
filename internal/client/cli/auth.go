package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillshare/internal/client/client"
	"github.com/dmitrijs2005/skillshare/internal/client/session"
	"github.com/dmitrijs2005/skillshare/internal/filex"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Login prompts for an email and password and signs in. On success the
// inbox and progress list are loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.session.LoginWithCredentials(ctx, email, password)
	if err != nil {
		a.println(authMessage(err))
		return err
	}

	a.println(fmt.Sprintf("Welcome, %s", s.User.DisplayName()))
	a.resetCollections()
	a.preload(ctx)
	return nil
}

// LoginWithProvider starts an external login. The user finishes it in a
// browser and then runs "refresh".
func (a *App) LoginWithProvider(ctx context.Context, provider string) error {
	if _, err := a.session.LoginWithProvider(ctx, provider); err != nil {
		a.println(err.Error())
		return err
	}
	a.println("When you are done, type 'refresh'.")
	return nil
}

// Register prompts for the account fields and an optional avatar file.
func (a *App) Register(ctx context.Context) error {
	var form client.RegistrationForm
	var err error

	if form.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Password, err = getPassword(a.out); err != nil {
		return err
	}
	if form.Bio, err = getSimpleText(a.reader, "Enter bio (optional)", a.out); err != nil {
		return err
	}
	avatar, err := getSimpleText(a.reader, "Avatar file path (optional)", a.out)
	if err != nil {
		return err
	}
	if avatar != "" {
		att, err := filex.LoadAttachment(avatar)
		if err != nil {
			a.println(err.Error())
			return err
		}
		form.Avatar = &att
	}

	s, err := a.session.RegisterUser(ctx, form)
	if err != nil {
		a.println(authMessage(err))
		return err
	}

	a.println(fmt.Sprintf("Account created. Welcome, %s", s.User.DisplayName()))
	a.resetCollections()
	a.preload(ctx)
	return nil
}

// Logout ends the session. The collections are dropped by the session
// subscription set up in NewApp.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	if msg := a.session.LastError(); msg != "" {
		a.println(msg)
		return nil
	}
	a.println("Logged out")
	return nil
}

// WhoAmI prints the session and when it was last verified.
func (a *App) WhoAmI(ctx context.Context) error {
	s := a.session.Current()
	if !s.Authenticated() {
		a.println(fmt.Sprintf("Not signed in (%s)", s.Status))
		if msg := a.session.LastError(); msg != "" {
			a.println(msg)
		}
		return nil
	}

	a.println(fmt.Sprintf("%s <%s>", s.User.DisplayName(), s.User.Email))
	if s.User.Bio != "" {
		a.println(s.User.Bio)
	}

	at, ok, err := a.cache.SavedAt(ctx)
	switch {
	case err != nil:
		a.logger.Warn(ctx, "read cache timestamp", "error", err)
	case ok:
		a.println(fmt.Sprintf("Verified at %s", at.Local().Format("2006-01-02 15:04:05")))
	default:
		a.println("Not cached on this device")
	}
	return nil
}

// Refresh asks the backend who is signed in, e.g. after an external login.
func (a *App) Refresh(ctx context.Context) error {
	s, err := a.session.Revalidate(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.println("Not signed in")
		} else {
			a.println(s.Message)
		}
		return err
	}

	a.println(fmt.Sprintf("Signed in as %s", s.User.DisplayName()))
	a.preload(ctx)
	return nil
}

func authMessage(err error) string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return err.Error()
}
