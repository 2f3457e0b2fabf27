package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/parle/internal/router"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

// openBrowser is a test seam for [shared.OpenBrowser].
var openBrowser = shared.OpenBrowser

type routeView struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	RequiresAuth bool   `json:"requires_auth"`
	Decision     string `json:"decision"`
}

// Routes prints the route table with the guard decision for the current session.
func (r *Runner) Routes(ctx context.Context, cmd *cli.Command) error {
	authenticated := r.session.IsAuthenticated()

	views := []routeView{}
	for _, rt := range r.navigator.Table().Routes() {
		views = append(views, routeView{
			Path:         rt.Path,
			Name:         rt.Name,
			RequiresAuth: rt.RequiresAuth,
			Decision:     router.Guard(rt, authenticated).String(),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, true)
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		auth := ""
		if v.RequiresAuth {
			auth = "yes"
		}
		rows = append(rows, []string{v.Path, v.Name, auth, v.Decision})
	}
	r.writePlain("%s\n", ui.SessionBadge(r.painter, authenticated, ""))
	return r.writeTable([]string{"Path", "Name", "Auth", "Guard"}, rows, nil)
}

// Open resolves a path through the guard and prints where the navigation lands.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	m, err := r.navigator.Navigate(path)
	if err != nil {
		return err
	}

	if m.RedirectedFrom != "" {
		r.writePlain("%s\n", r.painter.Warn(fmt.Sprintf("%s redirected to %s", m.RedirectedFrom, m.Path)))
	} else {
		r.writePlain("%s\n", ui.Success(r.painter, "%s (%s)", m.Path, m.Route.Name))
	}
	for k, v := range m.Params {
		r.writePlain("  %s = %s\n", k, v)
	}

	if !cmd.Bool("browser") {
		return nil
	}

	target, err := webURL(r.config.Web.BaseURL, m.Path)
	if err != nil {
		return err
	}
	r.logger.Info("opening browser", "url", target)
	return openBrowser(target)
}

func webURL(base, path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: web.base_url %q", shared.ErrInvalidConfig, base)
	}
	return u.String() + path, nil
}
