package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	perr "dncsweep/internal/platform/errors"
)

type reviewPayload struct {
	CompanyID string `json:"company_id" validate:"required"`
	Approve   bool   `json:"approve"`
	Note      string `json:"note" validate:"max=200"`
}

func TestParseJSONValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/review", strings.NewReader(`{"company_id":"c-1","approve":true}`))
	got, err := ParseJSON[reviewPayload](r)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if got.CompanyID != "c-1" || !got.Approve {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestParseJSONValidationError(t *testing.T) {
	r := httptest.NewRequest("POST", "/review", strings.NewReader(`{"approve":true}`))
	_, err := ParseJSON[reviewPayload](r)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("expected validation code, got %v", err)
	}
	e, _ := perr.As(err)
	if e.Field() != "company_id" {
		t.Fatalf("expected json tag field name, got %q", e.Field())
	}
}

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/review", strings.NewReader(`{"company_id":"c-1","bogus":1}`))
	_, err := ParseJSON[reviewPayload](r)
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("unknown fields should be a JSON error, got %v", err)
	}
}

func TestParseJSONEmptyBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/review", strings.NewReader(""))
	_, err := ParseJSON[reviewPayload](r)
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("empty POST body should be a JSON error, got %v", err)
	}

	// GETs tolerate an empty body
	r = httptest.NewRequest("GET", "/review", strings.NewReader(""))
	if _, err := ParseJSON[reviewPayload](r); err != nil {
		t.Fatalf("empty GET body should parse to zero value, got %v", err)
	}
}

func TestParseJSONTrailingData(t *testing.T) {
	r := httptest.NewRequest("POST", "/review", strings.NewReader(`{"company_id":"c-1"}{"company_id":"c-2"}`))
	_, err := ParseJSON[reviewPayload](r)
	if !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("trailing data should be a JSON error, got %v", err)
	}
}
