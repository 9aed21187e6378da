package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/model"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/screens"
	"github.com/goliatone/go-formfill/pkg/session"
)

// CookieName carries the visitor id.
const CookieName = "formfill_sid"

// visitor is the per-browser state. mu serialises requests of one visitor, so
// the flow and the draft are only touched with it held.
type visitor struct {
	mu sync.Mutex

	id      string
	store   *session.Store
	notices *notice.Queue
	login   *screens.Login
	form    *screens.Form
	flow    *formflow.Flow

	draftRoll string
	draftName string
}

// visitor returns the state for the request cookie, issuing a new id when the
// cookie is missing or malformed.
func (s *Server) visitor(w http.ResponseWriter, r *http.Request) (*visitor, error) {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.visitors[id]; ok {
		return v, nil
	}
	v, err := s.newVisitor(r.Context(), id)
	if err != nil {
		return nil, err
	}
	s.visitors[id] = v
	return v, nil
}

func (s *Server) newVisitor(ctx context.Context, id string) (*visitor, error) {
	logger := s.logger.With(zap.String("session_id", id))
	store := session.New(session.Prefixed(s.backend, id), session.WithLogger(logger))
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	v := &visitor{
		id:      id,
		store:   store,
		notices: notice.NewQueue(),
	}
	v.login = &screens.Login{
		Store:    store,
		Gateway:  s.registrar,
		Notifier: v.notices,
		Logger:   logger,
	}
	v.form = &screens.Form{
		Store:     store,
		Source:    s.source,
		Notifier:  v.notices,
		Submitter: s.submitter,
		Registry:  s.registry,
		Metrics:   s.metrics,
		Logger:    logger,
	}

	// Identity changes only happen inside a request holding v.mu. A new
	// identity needs a fresh fetch.
	store.Subscribe(func(model.UserIdentity) {
		v.flow = nil
	})
	return v, nil
}
