package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/model"
	"github.com/goliatone/go-formfill/pkg/notice"
	"github.com/goliatone/go-formfill/pkg/screens"
	"github.com/goliatone/go-formfill/pkg/session"
)

// Menu entries.
const (
	choicePrevious  = "Previous"
	choiceNext      = "Next"
	choiceSubmit    = "Submit"
	choiceLogout    = "Logout"
	choiceQuit      = "Quit"
	choiceRetry     = "Retry"
	choiceFillAgain = "Fill again"

	blankOption = "Select"
)

var errQuit = errors.New("tui: quit")

// App drives the login and form screens through a PromptDriver.
type App struct {
	store     *session.Store
	registrar gateway.Registrar
	source    gateway.FormSource

	driver    PromptDriver
	theme     Theme
	logger    *zap.Logger
	submitter formflow.Submitter
	registry  *fields.Registry
	metrics   *metrics.Metrics

	notices *notice.Queue
	login   *screens.Login
	form    *screens.Form
}

// New builds an App. The store should already be loaded.
func New(store *session.Store, registrar gateway.Registrar, source gateway.FormSource, opts ...Option) (*App, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if registrar == nil || source == nil {
		return nil, errors.New("tui: registrar and form source are required")
	}

	a := &App{
		store:     store,
		registrar: registrar,
		source:    source,
		driver:    NewSurveyDriver(nil),
		theme:     DefaultTheme,
		logger:    zap.NewNop(),
		registry:  fields.Default(),
		notices:   notice.NewQueue(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	a.login = &screens.Login{
		Store:    store,
		Gateway:  registrar,
		Notifier: a.notices,
		Logger:   a.logger,
	}
	a.form = &screens.Form{
		Store:     store,
		Source:    source,
		Notifier:  a.notices,
		Submitter: a.submitter,
		Registry:  a.registry,
		Metrics:   a.metrics,
		Logger:    a.logger,
	}
	return a, nil
}

// Run shows screens until the user quits. Ctrl+C surfaces as ErrAborted.
func (a *App) Run(ctx context.Context) error {
	cancel := a.store.Subscribe(func(identity model.UserIdentity) {
		a.logger.Debug("identity changed", zap.String("roll_number", identity.RollNumber), zap.Bool("logged_in", identity.Complete()))
	})
	defer cancel()

	route := a.login.Entry()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch route {
		case screens.RouteLogin:
			route, err = a.runLogin(ctx)
		case screens.RouteForm:
			route, err = a.runForm(ctx)
		default:
			err = fmt.Errorf("tui: unknown route %q", route)
		}
		a.flush(ctx)

		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) runLogin(ctx context.Context) (screens.Route, error) {
	a.heading(ctx, "Login")
	roll, err := a.driver.Input(ctx, InputConfig{Message: "Roll number"})
	if err != nil {
		return screens.RouteLogin, err
	}
	name, err := a.driver.Input(ctx, InputConfig{Message: "Name"})
	if err != nil {
		return screens.RouteLogin, err
	}

	route, err := a.login.Submit(ctx, strings.TrimSpace(roll), strings.TrimSpace(name))
	if err != nil && !errors.Is(err, screens.ErrBusy) {
		return route, err
	}
	if route == screens.RouteForm {
		return route, nil
	}

	a.flush(ctx)
	again, err := a.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
	if err != nil {
		return route, err
	}
	if !again {
		return route, errQuit
	}
	return route, nil
}

func (a *App) runForm(ctx context.Context) (screens.Route, error) {
	route, flow, err := a.form.Mount(ctx)
	if err != nil || route != screens.RouteForm {
		return route, err
	}
	a.flush(ctx)

	if flow == nil {
		return a.offerRetry(ctx)
	}
	return a.fill(ctx, flow)
}

func (a *App) offerRetry(ctx context.Context) (screens.Route, error) {
	switch choice, err := a.choose(ctx, "The form could not be loaded", []string{choiceRetry, choiceLogout, choiceQuit}); {
	case err != nil:
		return screens.RouteForm, err
	case choice == choiceLogout:
		return a.logout(ctx)
	case choice == choiceQuit:
		return screens.RouteForm, errQuit
	default:
		return screens.RouteForm, nil
	}
}

func (a *App) fill(ctx context.Context, flow *formflow.Flow) (screens.Route, error) {
	def := flow.Definition()
	a.heading(ctx, fmt.Sprintf("%s (v%s)", def.FormTitle, def.Version))
	a.info(ctx, a.userLine())

	for {
		if flow.Submitted() {
			choice, err := a.choose(ctx, "What next?", []string{choiceFillAgain, choiceLogout, choiceQuit})
			if err != nil {
				return screens.RouteForm, err
			}
			switch choice {
			case choiceFillAgain:
				if err := flow.Reset(ctx); err != nil {
					return screens.RouteForm, err
				}
				continue
			case choiceLogout:
				route, err := a.logout(ctx)
				if err != nil || route != screens.RouteForm {
					return route, err
				}
				continue
			default:
				return screens.RouteForm, errQuit
			}
		}

		a.showSection(ctx, flow)
		if err := a.promptSection(ctx, flow); err != nil {
			return screens.RouteForm, err
		}

		choice, err := a.choose(ctx, "Continue", sectionChoices(flow.Actions()))
		if err != nil {
			return screens.RouteForm, err
		}
		switch choice {
		case choicePrevious:
			flow.Previous()
		case choiceNext:
			flow.Next(a.notices)
		case choiceSubmit:
			if _, err := flow.Submit(ctx, a.notices); err != nil {
				a.logger.Debug("submit rejected", zap.Error(err))
			}
		case choiceLogout:
			route, err := a.logout(ctx)
			if err != nil || route != screens.RouteForm {
				return route, err
			}
		case choiceQuit:
			return screens.RouteForm, errQuit
		}
		a.flush(ctx)
	}
}

func (a *App) logout(ctx context.Context) (screens.Route, error) {
	confirmed, err := a.driver.Confirm(ctx, ConfirmConfig{Message: screens.MsgLogoutConfirm})
	if err != nil {
		return screens.RouteForm, err
	}
	return a.form.Logout(ctx, confirmed)
}

func sectionChoices(actions formflow.Actions) []string {
	var out []string
	if actions.Previous {
		out = append(out, choicePrevious)
	}
	if actions.Next {
		out = append(out, choiceNext)
	}
	if actions.Submit {
		out = append(out, choiceSubmit)
	}
	return append(out, choiceLogout, choiceQuit)
}

func (a *App) showSection(ctx context.Context, flow *formflow.Flow) {
	section := flow.Section()
	a.heading(ctx, fmt.Sprintf("Section %d of %d: %s", flow.Cursor()+1, flow.SectionCount(), section.Title))
	if desc := plainText(section.Description); desc != "" {
		a.info(ctx, desc)
	}
}

// promptSection asks for every field of the current section, pre-filled with
// the values entered so far.
func (a *App) promptSection(ctx context.Context, flow *formflow.Flow) error {
	for _, field := range flow.Section().Fields {
		kind, err := flow.Kind(field.FieldID)
		if err != nil {
			a.logger.Warn("skipping field", zap.String("field", field.FieldID), zap.Error(err))
			continue
		}
		if err := a.promptField(ctx, flow, field, kind); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) promptField(ctx context.Context, flow *formflow.Flow, field model.FormField, kind fields.Kind) error {
	message := fieldMessage(field)
	current := flow.Value(field.FieldID)

	switch kind.Shape() {
	case fields.ShapeMultiLine:
		value, err := a.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: field.Placeholder})
		if err != nil {
			return err
		}
		return flow.SetValue(field.FieldID, value)

	case fields.ShapeSingleSelect, fields.ShapeExclusiveSelect:
		labels := append([]string{blankOption}, optionLabels(field.Options)...)
		defaultIdx := 0
		for i, opt := range field.Options {
			if opt.Value == current {
				defaultIdx = i + 1
			}
		}
		idx, err := a.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIdx, Help: field.Placeholder})
		if err != nil {
			return err
		}
		if idx <= 0 || idx > len(field.Options) {
			return flow.SetValue(field.FieldID, "")
		}
		return flow.SetValue(field.FieldID, field.Options[idx-1].Value)

	case fields.ShapeMultiSelect:
		selected := flow.Selected(field.FieldID)
		var defaults []int
		for i, opt := range field.Options {
			if contains(selected, opt.Value) {
				defaults = append(defaults, i)
			}
		}
		indices, err := a.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: optionLabels(field.Options), Defaults: defaults, Help: field.Placeholder})
		if err != nil {
			return err
		}
		var chosen []string
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				chosen = append(chosen, field.Options[idx].Value)
			}
		}
		return flow.SetSelection(field.FieldID, fields.OrderedSelection(selected, chosen))

	default:
		value, err := a.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: field.Placeholder})
		if err != nil {
			return err
		}
		return flow.SetValue(field.FieldID, value)
	}
}

func fieldMessage(field model.FormField) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func optionLabels(options []model.FieldOption) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Label
		if out[i] == "" {
			out[i] = opt.Value
		}
	}
	return out
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func (a *App) choose(ctx context.Context, message string, choices []string) (string, error) {
	idx, err := a.driver.Select(ctx, SelectConfig{Message: message, Options: choices})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(choices) {
		return "", fmt.Errorf("tui: invalid choice %d", idx)
	}
	return choices[idx], nil
}

func (a *App) userLine() string {
	identity := a.store.Identity()
	name := identity.Name
	if name == "" {
		name = "User"
	}
	roll := identity.RollNumber
	if roll == "" {
		roll = "Reg No"
	}
	return fmt.Sprintf("%s (%s)", name, roll)
}

func (a *App) flush(ctx context.Context) {
	for _, n := range a.notices.Drain() {
		a.info(ctx, a.theme.prefix(n.Level)+n.Message)
	}
}

func (a *App) heading(ctx context.Context, text string) {
	a.info(ctx, a.theme.HeadingPrefix+text)
}

func (a *App) info(ctx context.Context, msg string) {
	if err := a.driver.Info(ctx, msg); err != nil {
		a.logger.Debug("write info", zap.Error(err))
	}
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText strips markup from section descriptions for terminal output.
func plainText(raw string) string {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(raw)))
}
