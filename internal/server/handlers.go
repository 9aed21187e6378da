package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/renderers/html"
	"github.com/goliatone/go-formfill/pkg/screens"
)

// Form actions posted by the form page.
const (
	actionNext     = "next"
	actionPrevious = "previous"
	actionSubmit   = "submit"
	actionLogout   = "logout"
	actionRetry    = "retry"
	actionRestart  = "restart"
)

func (s *Server) showLogin(w http.ResponseWriter, r *http.Request) {
	v, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, "load visitor", err)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.login.Entry() == screens.RouteForm {
		redirect(w, r, screens.RouteForm)
		return
	}

	page := html.LoginPage{
		Notices:    v.notices.Drain(),
		RollNumber: v.draftRoll,
		Name:       v.draftName,
	}
	v.draftRoll, v.draftName = "", ""
	s.render(w, func() ([]byte, error) { return s.renderer.Login(page) })
}

func (s *Server) submitLogin(w http.ResponseWriter, r *http.Request) {
	v, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, "load visitor", err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, cancel := s.requestContext(r)
	defer cancel()

	roll := strings.TrimSpace(r.PostFormValue("roll_number"))
	name := strings.TrimSpace(r.PostFormValue("name"))
	route, err := v.login.Submit(ctx, roll, name)
	if err != nil && !errors.Is(err, screens.ErrBusy) {
		s.logger.Error("login", zap.String("session_id", v.id), zap.Error(err))
	}
	if route == screens.RouteLogin {
		v.draftRoll, v.draftName = roll, name
	}
	redirect(w, r, route)
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	v, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, "load visitor", err)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.flow == nil {
		ctx, cancel := s.requestContext(r)
		defer cancel()

		route, flow, err := v.form.Mount(ctx)
		if err != nil && !errors.Is(err, screens.ErrBusy) {
			s.fail(w, "mount form", err)
			return
		}
		if route != screens.RouteForm {
			redirect(w, r, route)
			return
		}
		v.flow = flow
	}

	page := html.FormPage{
		Identity: v.store.Identity(),
		Notices:  v.notices.Drain(),
		Flow:     v.flow,
	}
	s.render(w, func() ([]byte, error) { return s.renderer.Form(page) })
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	v, err := s.visitor(w, r)
	if err != nil {
		s.fail(w, "load visitor", err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	ctx, cancel := s.requestContext(r)
	defer cancel()

	switch action := r.PostFormValue("action"); action {
	case actionLogout:
		route, err := v.form.Logout(ctx, r.PostFormValue("confirm") == "yes")
		if err != nil {
			s.fail(w, "logout", err)
			return
		}
		redirect(w, r, route)
		return

	case actionRetry:
		v.flow = nil

	case actionRestart:
		if v.flow != nil {
			if err := v.flow.Reset(ctx); err != nil {
				s.fail(w, "reset form", err)
				return
			}
		}

	case actionNext, actionPrevious, actionSubmit:
		if v.flow == nil {
			break
		}
		if posted := r.PostFormValue("cursor"); posted != strconv.Itoa(v.flow.Cursor()) {
			s.logger.Debug("stale form post", zap.String("session_id", v.id), zap.String("posted_cursor", posted), zap.Int("cursor", v.flow.Cursor()))
			notice.Info(v.notices, screens.MsgStalePage)
			break
		}
		if err := applySection(v.flow, r); err != nil {
			s.logger.Debug("apply section", zap.String("session_id", v.id), zap.Error(err))
		}
		switch action {
		case actionNext:
			v.flow.Next(v.notices)
		case actionPrevious:
			v.flow.Previous()
		default:
			if _, err := v.flow.Submit(ctx, v.notices); err != nil {
				s.logger.Debug("submit rejected", zap.String("session_id", v.id), zap.Error(err))
			}
		}

	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}
	redirect(w, r, screens.RouteForm)
}

// applySection stores the posted values of the current section. A control
// missing from the body (unchecked radio or checkbox) clears the field, so the
// caller must first check the body was rendered for this section.
func applySection(flow *formflow.Flow, r *http.Request) error {
	var errs []error
	for _, field := range flow.Section().Fields {
		kind, err := flow.Kind(field.FieldID)
		if err != nil {
			continue
		}
		if kind.Shape() == fields.ShapeMultiSelect {
			chosen := fields.OrderedSelection(flow.Selected(field.FieldID), r.PostForm[field.FieldID])
			errs = append(errs, flow.SetSelection(field.FieldID, chosen))
			continue
		}
		errs = append(errs, flow.SetValue(field.FieldID, r.PostForm.Get(field.FieldID)))
	}
	return errors.Join(errs...)
}

func redirect(w http.ResponseWriter, r *http.Request, route screens.Route) {
	http.Redirect(w, r, route.String(), http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, fn func() ([]byte, error)) {
	body, err := fn()
	if err != nil {
		s.fail(w, "render", err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
