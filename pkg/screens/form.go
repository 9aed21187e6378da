package screens

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/session"
)

// Form guards the form screen, fetches the definition and builds the Flow.
type Form struct {
	Store     *session.Store
	Source    gateway.FormSource
	Notifier  notice.Notifier
	Submitter formflow.Submitter
	Registry  *fields.Registry
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	busy atomic.Bool
}

// Busy reports whether the definition is being fetched.
func (f *Form) Busy() bool {
	return f.busy.Load()
}

// Guard returns RouteLogin once the identity has been cleared.
func (f *Form) Guard() Route {
	if f.Store.Identity().IsZero() {
		return RouteLogin
	}
	return RouteForm
}

// Mount runs when the form screen is entered. Without a roll number the user
// is sent back to login. A failed fetch leaves the user on the form screen
// with a nil flow so the front end can offer a retry.
func (f *Form) Mount(ctx context.Context) (Route, *formflow.Flow, error) {
	identity := f.Store.Identity()
	if identity.RollNumber == "" {
		notice.Info(f.Notifier, MsgPleaseLogin)
		return RouteLogin, nil, nil
	}
	if !f.busy.CompareAndSwap(false, true) {
		return RouteForm, nil, ErrBusy
	}
	defer f.busy.Store(false)

	logger := f.logger()
	resp, err := f.Source.FetchForm(ctx, identity.RollNumber)
	if err != nil {
		logger.Error("fetch form", zap.String("roll_number", identity.RollNumber), zap.Error(err))
		notice.Info(f.Notifier, fallback(gateway.Reason(err), MsgFetchFailed))
		return RouteForm, nil, nil
	}
	if resp.Message != "" {
		notice.Success(f.Notifier, resp.Message)
	}

	flow, err := formflow.New(resp.Form,
		formflow.WithRespondent(identity),
		formflow.WithSubmitter(f.Submitter),
		formflow.WithRegistry(f.Registry),
		formflow.WithMetrics(f.Metrics),
		formflow.WithLogger(logger),
	)
	if err != nil {
		logger.Error("build form flow", zap.String("form", resp.Form.FormTitle), zap.Error(err))
		notice.Info(f.Notifier, err.Error())
		return RouteForm, nil, nil
	}
	return RouteForm, flow, nil
}

// Logout clears the identity only when the user confirmed the prompt.
func (f *Form) Logout(ctx context.Context, confirmed bool) (Route, error) {
	if !confirmed {
		return RouteForm, nil
	}
	if err := f.Store.Clear(ctx); err != nil {
		f.logger().Error("clear identity", zap.Error(err))
		return RouteForm, err
	}
	return f.Guard(), nil
}

func (f *Form) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}
