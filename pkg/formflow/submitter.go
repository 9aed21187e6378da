package formflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/model"
)

// Submission is the final output of a completed flow.
type Submission struct {
	Respondent model.UserIdentity
	FormTitle  string
	Version    string
	Data       model.FilledData
}

// Submitter delivers a submission. The returned acknowledgement is shown to
// the user; an empty string falls back to DefaultAck.
type Submitter interface {
	Submit(ctx context.Context, submission Submission) (ack string, err error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, submission Submission) (string, error)

func (f SubmitterFunc) Submit(ctx context.Context, submission Submission) (string, error) {
	return f(ctx, submission)
}

// DefaultAck is shown after a successful submission.
const DefaultAck = "Form submitted!"

// LogSubmitter writes the collected data to the log. There is no remote
// submission endpoint yet.
type LogSubmitter struct {
	Logger *zap.Logger
}

func (s LogSubmitter) Submit(_ context.Context, submission Submission) (string, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("collected form data",
		zap.String("form_title", submission.FormTitle),
		zap.String("version", submission.Version),
		zap.String("roll_number", submission.Respondent.RollNumber),
		zap.Any("data", map[string]string(submission.Data)),
	)
	return "Form submitted! (Check the logs)", nil
}
