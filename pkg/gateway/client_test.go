package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/model"
)

const formPayload = `{
  "message": "Form fetched successfully",
  "form": {
    "formTitle": "Survey",
    "version": "1.0",
    "sections": [
      {"title": "S1", "description": "d", "fields": [
        {"fieldId": "q1", "label": "Q1", "type": "text", "required": true}
      ]}
    ]
  }
}`

func TestFetchForm(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/get-form" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query().Get("rollNumber")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, formPayload)
	}))
	defer srv.Close()

	m := metrics.New()
	client, err := gateway.NewClient(srv.URL+"/", gateway.WithMetrics(m))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	resp, err := client.FetchForm(context.Background(), "RA 22/01&x")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotQuery != "RA 22/01&x" {
		t.Fatalf("roll number not escaped correctly: %q", gotQuery)
	}
	if resp.Message != "Form fetched successfully" {
		t.Fatalf("message: %q", resp.Message)
	}
	want := model.FormField{FieldID: "q1", Label: "Q1", Type: model.FieldTypeText, Required: true}
	if diff := cmp.Diff(want, resp.Form.Sections[0].Fields[0]); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchFormFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message":"No form for this roll number"}`)
			},
			check: func(t *testing.T, err error) {
				var statusErr *gateway.StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
					t.Fatalf("expected StatusError 404, got %v", err)
				}
				if gateway.Reason(err) != "No form for this roll number" {
					t.Fatalf("reason: %q", gateway.Reason(err))
				}
			},
		},
		{
			name: "decode",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{not json`)
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "decode response") {
					t.Fatalf("expected decode error, got %v", err)
				}
			},
		},
		{
			name: "invalid definition",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"message":"ok","form":{"sections":[{"fields":[{"fieldId":"a","type":"radio"}]}]}}`)
			},
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "requires options") {
					t.Fatalf("expected validation error, got %v", err)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			client, err := gateway.NewClient(srv.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.FetchForm(context.Background(), "r1")
			tc.check(t, err)
		})
	}
}

func TestFetchFormRequiresRollNumber(t *testing.T) {
	client, _ := gateway.NewClient("http://127.0.0.1:1")
	if _, err := client.FetchForm(context.Background(), ""); !errors.Is(err, gateway.ErrEmptyRollNumber) {
		t.Fatalf("expected ErrEmptyRollNumber, got %v", err)
	}
	if _, err := gateway.NewClient("  "); !errors.Is(err, gateway.ErrEmptyEndpoint) {
		t.Fatalf("expected ErrEmptyEndpoint, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	var received map[string]string
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/create-user" {
			http.NotFound(w, r)
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"message":"done"}`)
	}))
	defer srv.Close()

	client, _ := gateway.NewClient(srv.URL)

	reg, err := client.CreateUser(context.Background(), "r1", "Ada")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"rollNumber": "r1", "name": "Ada"}, received); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if reg.Outcome != gateway.OutcomeRegistered || reg.Message != "done" {
		t.Fatalf("registration: %+v", reg)
	}

	status = http.StatusConflict
	reg, err = client.CreateUser(context.Background(), "r1", "Ada")
	if err != nil || reg.Outcome != gateway.OutcomeAlreadyExists {
		t.Fatalf("conflict: %+v %v", reg, err)
	}
}

func TestCreateUserTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client, _ := gateway.NewClient(srv.URL, gateway.WithTimeout(20*time.Millisecond))
	if _, err := client.CreateUser(context.Background(), "r1", "Ada"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
