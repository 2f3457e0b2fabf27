package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/router"
	"github.com/desertthunder/parle/internal/session"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

// sessionStatus is the JSON shape printed by `auth status`.
type sessionStatus struct {
	Authenticated bool       `json:"authenticated"`
	Storage       string     `json:"storage"`
	Subject       string     `json:"subject,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
}

// alreadyLoggedIn reports whether the guard sent an entry screen to the dashboard.
func (r *Runner) alreadyLoggedIn(path string) (bool, error) {
	m, err := r.navigator.Navigate(path)
	if err != nil {
		return false, err
	}
	return m.Path == router.DashboardPath, nil
}

func (r *Runner) password(cmd *cli.Command) (string, error) {
	if pw := cmd.String("password"); pw != "" {
		return pw, nil
	}
	pw, err := r.promptPassword("Password")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if pw == "" {
		return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return pw, nil
}

// AuthRegister creates an account. It does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if done, err := r.alreadyLoggedIn(router.RegisterPath); err != nil {
		return err
	} else if done {
		return r.writePlain("%s\n", r.painter.Warn("Already logged in, run `parle auth logout` first"))
	}

	pw, err := r.password(cmd)
	if err != nil {
		return err
	}

	email := cmd.String("email")
	user, err := r.session.Register(ctx, models.UserCreate{Email: email, Name: cmd.String("name"), Password: pw})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrAuthFailed, r.session.Err(), err)
	}

	r.logger.Info("account created", "email", user.Email)
	r.writePlain("%s\n", ui.Success(r.painter, "Account created for %s", user.Email))
	return r.writePlain("%s\n", r.painter.Help("Run `parle auth login -e "+email+"` to start a session"))
}

// AuthLogin exchanges credentials for a token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if done, err := r.alreadyLoggedIn(router.LoginPath); err != nil {
		return err
	} else if done {
		return r.writePlain("%s\n", r.painter.Warn("Already logged in, run `parle auth logout` first"))
	}

	pw, err := r.password(cmd)
	if err != nil {
		return err
	}

	email := cmd.String("email")
	if err := r.session.Login(ctx, email, pw); err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrAuthFailed, r.session.Err(), err)
	}
	r.logger.Info("login", "email", email)

	if _, err := r.navigator.Navigate(router.DashboardPath); err != nil {
		return err
	}

	if u := r.session.User(); u != nil {
		return r.writePlain("%s\n", ui.Success(r.painter, "Logged in as %s", u.Email))
	}
	if !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: profile could not be loaded", shared.ErrNotAuthenticated)
	}
	return r.writePlain("%s\n", ui.Success(r.painter, "Logged in"))
}

// AuthLogout clears the stored token. It never calls the API.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	was := r.session.IsAuthenticated()
	r.session.Logout()
	r.navigator.Navigate(router.HomePath)

	if !was {
		return r.writePlain("%s\n", r.painter.Help("Not logged in"))
	}
	r.logger.Info("logout")
	return r.writePlain("%s\n", ui.Success(r.painter, "Logged out"))
}

// AuthWhoami fetches the profile for the stored token.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.enter(router.DashboardPath); err != nil {
		return err
	}

	user, err := r.session.RequireUser(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	rows := [][]string{
		{"ID", user.ID},
		{"Email", user.Email},
		{"Name", user.Name},
		{"Active", fmt.Sprintf("%t", user.IsActive)},
		{"Created", user.CreatedAt.String()},
	}
	return r.writeTable([]string{"Field", "Value"}, rows, nil)
}

// AuthStatus reports the local session without a network call.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	status := sessionStatus{
		Authenticated: r.session.IsAuthenticated(),
		Storage:       r.config.Session.Storage,
	}
	if status.Authenticated {
		claims := session.ParseClaims(r.session.Token())
		status.Subject = claims.Subject
		status.Expired = claims.Expired(time.Now())
		if !claims.ExpiresAt.IsZero() {
			status.ExpiresAt = &claims.ExpiresAt
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	r.writePlain("%s\n", ui.SessionBadge(r.painter, status.Authenticated, status.Subject))
	r.writePlain("Storage: %s\n", status.Storage)
	if status.ExpiresAt != nil {
		expiry := status.ExpiresAt.Local().Format(time.RFC1123)
		if status.Expired {
			return r.writePlain("%s\n", r.painter.Warn("Token expired "+expiry))
		}
		r.writePlain("Expires: %s\n", expiry)
	}
	return nil
}
