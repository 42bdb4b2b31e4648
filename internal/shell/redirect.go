package shell

import (
	"context"
	"errors"
	"net/http"

	"github.com/ziadkadry99/pixlet/internal/bootstrap"
	"github.com/ziadkadry99/pixlet/internal/navigation"
)

// redirectOpener captures the destination instead of opening it, so the
// navigator's allowlist and history apply to plain HTTP redirects too.
type redirectOpener struct {
	dest string
}

func (o *redirectOpener) Open(_ context.Context, rawURL string) error {
	o.dest = rawURL
	return nil
}

func (s *Shell) goHome(w http.ResponseWriter, r *http.Request) {
	s.redirect(w, r, func(ctx context.Context, nav *navigation.Navigator) error {
		return nav.OpenHome(ctx)
	})
}

func (s *Shell) goSearch(w http.ResponseWriter, r *http.Request) {
	query, err := bootstrap.ParseQuery(r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, bootstrap.EmptyQueryMessage, http.StatusBadRequest)
		return
	}
	s.redirect(w, r, func(ctx context.Context, nav *navigation.Navigator) error {
		return nav.Search(ctx, query)
	})
}

func (s *Shell) redirect(w http.ResponseWriter, r *http.Request, open func(context.Context, *navigation.Navigator) error) {
	opener := &redirectOpener{}
	if err := open(r.Context(), s.nav.WithOpener(opener)); err != nil {
		s.logger.Warn("redirect navigation failed", "path", r.URL.Path, "error", err)
		switch {
		case errors.Is(err, navigation.ErrEmptyQuery):
			http.Error(w, bootstrap.EmptyQueryMessage, http.StatusBadRequest)
		default:
			http.Error(w, "could not open destination", http.StatusBadGateway)
		}
		return
	}
	http.Redirect(w, r, opener.dest, http.StatusFound)
}
