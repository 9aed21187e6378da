package screens

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/session"
)

// Login registers or logs in a user by roll number and name.
type Login struct {
	Store    *session.Store
	Gateway  gateway.Registrar
	Notifier notice.Notifier
	Logger   *zap.Logger

	busy atomic.Bool
}

// Entry returns where a visitor of the login screen belongs: the form when an
// identity is already set.
func (l *Login) Entry() Route {
	if l.Store.Identity().Complete() {
		return RouteForm
	}
	return RouteLogin
}

// Busy reports whether a registration request is in flight.
func (l *Login) Busy() bool {
	return l.busy.Load()
}

// Submit registers the user. A 409 from the gateway is a login with the
// submitted details. Gateway failures become notices and keep the user on the
// login screen; only ErrBusy and session persistence failures are returned.
func (l *Login) Submit(ctx context.Context, rollNumber, name string) (Route, error) {
	if rollNumber == "" || name == "" {
		notice.Info(l.Notifier, MsgFillAllFields)
		return RouteLogin, nil
	}
	if !l.busy.CompareAndSwap(false, true) {
		return RouteLogin, ErrBusy
	}
	defer l.busy.Store(false)

	logger := l.logger()
	reg, err := l.Gateway.CreateUser(ctx, rollNumber, name)
	if err != nil {
		logger.Error("create user", zap.String("roll_number", rollNumber), zap.Error(err))
		notice.Info(l.Notifier, fallback(gateway.Reason(err), MsgLoginFailed))
		return RouteLogin, nil
	}

	switch reg.Outcome {
	case gateway.OutcomeRegistered, gateway.OutcomeAlreadyExists:
		if err := l.Store.SetUser(ctx, rollNumber, name); err != nil {
			logger.Error("persist identity", zap.String("roll_number", rollNumber), zap.Error(err))
			notice.Error(l.Notifier, MsgLoginFailed)
			return RouteLogin, err
		}
		if reg.Outcome == gateway.OutcomeAlreadyExists {
			notice.Info(l.Notifier, MsgUserExists)
		} else {
			notice.Success(l.Notifier, fmt.Sprintf(welcomeMessageTmpl, name))
		}
		logger.Info("user logged in", zap.String("roll_number", rollNumber), zap.Stringer("outcome", reg.Outcome))
		return RouteForm, nil
	default:
		logger.Error("create user rejected", zap.String("roll_number", rollNumber), zap.Int("status", reg.StatusCode), zap.String("reason", reg.Reason))
		notice.Info(l.Notifier, fallback(reg.Reason, MsgLoginFailed))
		return RouteLogin, nil
	}
}

func (l *Login) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
