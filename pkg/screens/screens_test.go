package screens_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/model"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/screens"
	"github.com/goliatone/go-formfill/pkg/session"
)

type stubRegistrar struct {
	reg   gateway.Registration
	err   error
	calls int
	block chan struct{}
}

func (s *stubRegistrar) CreateUser(ctx context.Context, rollNumber, name string) (gateway.Registration, error) {
	s.calls++
	if s.block != nil {
		<-s.block
	}
	return s.reg, s.err
}

type stubSource struct {
	resp gateway.FormResponse
	err  error
	seen []string
}

func (s *stubSource) FetchForm(ctx context.Context, rollNumber string) (gateway.FormResponse, error) {
	s.seen = append(s.seen, rollNumber)
	return s.resp, s.err
}

func newLogin(reg *stubRegistrar) (*screens.Login, *notice.Queue) {
	queue := notice.NewQueue()
	return &screens.Login{
		Store:    session.New(session.NewMemoryBackend()),
		Gateway:  reg,
		Notifier: queue,
	}, queue
}

func TestLoginAlreadyExistsRedirectsToForm(t *testing.T) {
	login, queue := newLogin(&stubRegistrar{reg: gateway.Classify(http.StatusConflict, nil)})

	route, err := login.Submit(context.Background(), "RA2211003020264", "Allan")
	require.NoError(t, err)
	assert.Equal(t, screens.RouteForm, route)
	assert.Equal(t, model.UserIdentity{RollNumber: "RA2211003020264", Name: "Allan"}, login.Store.Identity())
	assert.Equal(t, []notice.Notice{{Level: notice.LevelInfo, Message: screens.MsgUserExists}}, queue.Drain())
	assert.Equal(t, screens.RouteForm, login.Entry())
}

func TestLoginRegistered(t *testing.T) {
	login, queue := newLogin(&stubRegistrar{reg: gateway.Registered("created")})

	route, err := login.Submit(context.Background(), "r1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, screens.RouteForm, route)
	assert.Equal(t, []notice.Notice{{Level: notice.LevelSuccess, Message: "Welcome Ada! You're logged in :)"}}, queue.Drain())
}

func TestLoginRequiresBothFields(t *testing.T) {
	reg := &stubRegistrar{}
	login, queue := newLogin(reg)

	for _, in := range [][2]string{{"", "Ada"}, {"r1", ""}, {"", ""}} {
		route, err := login.Submit(context.Background(), in[0], in[1])
		require.NoError(t, err)
		assert.Equal(t, screens.RouteLogin, route)
	}
	assert.Zero(t, reg.calls)
	assert.Len(t, queue.Drain(), 3)
	assert.Equal(t, screens.RouteLogin, login.Entry())
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name string
		reg  *stubRegistrar
		want string
	}{
		{name: "status with reason", reg: &stubRegistrar{reg: gateway.Failed(500, "db down")}, want: "db down"},
		{name: "status without reason", reg: &stubRegistrar{reg: gateway.Failed(500, "")}, want: screens.MsgLoginFailed},
		{name: "transport", reg: &stubRegistrar{err: errors.New("dial tcp: refused")}, want: "dial tcp: refused"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			login, queue := newLogin(tc.reg)
			route, err := login.Submit(context.Background(), "r1", "Ada")
			require.NoError(t, err)
			assert.Equal(t, screens.RouteLogin, route)
			assert.True(t, login.Store.Identity().IsZero())
			assert.Equal(t, []notice.Notice{{Level: notice.LevelInfo, Message: tc.want}}, queue.Drain())
		})
	}
}

func TestLoginRejectsConcurrentSubmit(t *testing.T) {
	reg := &stubRegistrar{reg: gateway.Registered(""), block: make(chan struct{})}
	login, _ := newLogin(reg)

	done := make(chan error, 1)
	go func() {
		_, err := login.Submit(context.Background(), "r1", "Ada")
		done <- err
	}()

	require.Eventually(t, login.Busy, timeout, tick)
	_, err := login.Submit(context.Background(), "r1", "Ada")
	assert.ErrorIs(t, err, screens.ErrBusy)

	close(reg.block)
	require.NoError(t, <-done)
	assert.False(t, login.Busy())
	assert.Equal(t, 1, reg.calls)
}
