package httputil_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/santhosh-tekuri/jsonschema/v6"

	. "github.com/starquake/quizroster/internal/httputil"
)

type payload struct {
	Name string `json:"name"`
}

func compile(t *testing.T) *jsonschema.Schema {
	t.Helper()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(
		`{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`))
	if err != nil {
		t.Fatalf("failed to decode schema: %v", err)
	}
	c := jsonschema.NewCompiler()
	if err = c.AddResource("mem://test.json", doc); err != nil {
		t.Fatalf("failed to add schema: %v", err)
	}
	schema, err := c.Compile("mem://test.json")
	if err != nil {
		t.Fatalf("failed to compile schema: %v", err)
	}

	return schema
}

func TestDecodeValidJSON(t *testing.T) {
	t.Parallel()

	schema := compile(t)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alice"}`))
		got, err := DecodeValidJSON[payload](req, schema)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(payload{Name: "alice"}, got); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
	})

	tests := map[string]struct {
		body        string
		wantDetails bool
	}{
		"not json":      {body: `{"name":`},
		"missing field": {body: `{}`, wantDetails: true},
		"wrong type":    {body: `{"name":42}`, wantDetails: true},
		"too large":     {body: `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			_, err := DecodeValidJSON[payload](req, schema)
			if !errors.Is(err, ErrInvalidBody) {
				t.Fatalf("got error %v, want ErrInvalidBody", err)
			}
			var bodyErr *BodyError
			if !errors.As(err, &bodyErr) {
				t.Fatalf("got error %T, want *BodyError", err)
			}
			if got := len(bodyErr.Details) > 0; got != tc.wantDetails {
				t.Errorf("got details %q, want details: %v", bodyErr.Details, tc.wantDetails)
			}
		})
	}
}

func TestEncodeError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := &BodyError{Err: errors.New("bad"), Details: []string{"/name: missing"}}
	if encErr := EncodeError(rec, http.StatusBadRequest, "invalid request body", err); encErr != nil {
		t.Fatalf("unexpected error: %v", encErr)
	}

	if got, want := rec.Code, http.StatusBadRequest; got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
	if got, want := rec.Header().Get("Content-Type"), "application/json"; got != want {
		t.Errorf("got content type %q, want %q", got, want)
	}
	want := `{"error":"invalid request body","details":["/name: missing"]}` + "\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("got body %q, want %q", got, want)
	}
}

func TestEncodeError_WithoutDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	if err := EncodeError(rec, http.StatusInternalServerError, "boom", errors.New("db down")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"error":"boom"}` + "\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("got body %q, want %q", got, want)
	}
}
