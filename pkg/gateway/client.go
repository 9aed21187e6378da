package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/model"
)

// FormResponse is the get-form payload.
type FormResponse struct {
	Message string               `json:"message" yaml:"message"`
	Form    model.FormDefinition `json:"form" yaml:"form"`
}

// FormSource returns the form definition for a roll number.
type FormSource interface {
	FetchForm(ctx context.Context, rollNumber string) (FormResponse, error)
}

// Registrar registers users.
type Registrar interface {
	CreateUser(ctx context.Context, rollNumber, name string) (Registration, error)
}

// Client calls the remote form service. It never retries.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

var (
	_ FormSource = (*Client)(nil)
	_ Registrar  = (*Client)(nil)
)

// NewClient builds a client for the service at endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("gateway: parse endpoint: %w", err)
	}

	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoint returns the normalised base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchForm calls GET {endpoint}/get-form?rollNumber=<id>.
func (c *Client) FetchForm(ctx context.Context, rollNumber string) (FormResponse, error) {
	if rollNumber == "" {
		return FormResponse{}, ErrEmptyRollNumber
	}
	start := time.Now()
	outcome := "error"
	defer func() { c.metrics.ObserveGateway(metrics.CallFetchForm, outcome, time.Since(start)) }()

	target := c.endpoint + "/get-form?" + url.Values{"rollNumber": {rollNumber}}.Encode()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return FormResponse{}, fmt.Errorf("gateway: get-form: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		c.logger.Error("fetch form failed", zap.String("roll_number", rollNumber), zap.Error(err))
		return FormResponse{}, fmt.Errorf("gateway: get-form: %w", err)
	}

	if status != http.StatusOK {
		outcome = "status"
		statusErr := &StatusError{Call: "get-form", StatusCode: status, Status: statusText(status), Message: bodyMessage(body)}
		c.logger.Error("fetch form rejected", zap.String("roll_number", rollNumber), zap.Int("status", status), zap.ByteString("body", body))
		return FormResponse{}, statusErr
	}

	var resp FormResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		outcome = "decode"
		c.logger.Error("decode form failed", zap.String("roll_number", rollNumber), zap.Error(err))
		return FormResponse{}, fmt.Errorf("gateway: get-form: decode response: %w", err)
	}
	if err := resp.Form.Validate(); err != nil {
		outcome = "invalid"
		c.logger.Error("form definition rejected", zap.String("roll_number", rollNumber), zap.Error(err))
		return FormResponse{}, fmt.Errorf("gateway: get-form: %w", err)
	}

	outcome = "ok"
	return resp, nil
}

type createUserRequest struct {
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
}

// CreateUser calls POST {endpoint}/create-user. Transport failures are
// returned as errors; every HTTP response, including failures, is returned as
// a Registration.
func (c *Client) CreateUser(ctx context.Context, rollNumber, name string) (Registration, error) {
	if rollNumber == "" {
		return Registration{}, ErrEmptyRollNumber
	}
	start := time.Now()
	outcome := "error"
	defer func() { c.metrics.ObserveGateway(metrics.CallCreateUser, outcome, time.Since(start)) }()

	payload, err := json.Marshal(createUserRequest{RollNumber: rollNumber, Name: name})
	if err != nil {
		return Registration{}, fmt.Errorf("gateway: create-user: encode: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/create-user", bytes.NewReader(payload))
	if err != nil {
		return Registration{}, fmt.Errorf("gateway: create-user: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		c.logger.Error("create user failed", zap.String("roll_number", rollNumber), zap.Error(err))
		return Registration{}, fmt.Errorf("gateway: create-user: %w", err)
	}

	reg := Classify(status, body)
	outcome = reg.Outcome.String()
	if reg.Outcome == OutcomeFailed {
		c.logger.Error("create user rejected", zap.String("roll_number", rollNumber), zap.Int("status", status), zap.ByteString("body", body))
	} else {
		c.logger.Debug("create user", zap.String("roll_number", rollNumber), zap.Stringer("outcome", reg.Outcome), zap.String("message", reg.Message))
	}
	return reg, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func statusText(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
