package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/notice"
)

// Theme captures the prefixes printed in front of notices and headings. Keep
// minimal to avoid coupling screen logic to ANSI specifics.
type Theme struct {
	HeadingPrefix string
	SuccessPrefix string
	InfoPrefix    string
	ErrorPrefix   string
}

// DefaultTheme is used when WithTheme is not supplied.
var DefaultTheme = Theme{
	HeadingPrefix: "== ",
	SuccessPrefix: "[ok] ",
	InfoPrefix:    "[info] ",
	ErrorPrefix:   "[error] ",
}

func (t Theme) prefix(level notice.Level) string {
	switch level {
	case notice.LevelSuccess:
		return t.SuccessPrefix
	case notice.LevelError:
		return t.ErrorPrefix
	default:
		return t.InfoPrefix
	}
}

// Option configures the App.
type Option func(*App)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(a *App) {
		if driver != nil {
			a.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(a *App) {
		a.theme = theme
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSubmitter replaces the default log submitter.
func WithSubmitter(s formflow.Submitter) Option {
	return func(a *App) {
		a.submitter = s
	}
}

func WithRegistry(reg *fields.Registry) Option {
	return func(a *App) {
		if reg != nil {
			a.registry = reg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}
