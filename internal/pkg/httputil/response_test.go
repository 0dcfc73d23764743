package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onclass/bootcamp-api/internal/errs"
)

func TestFailBusinessStatuses(t *testing.T) {
	cases := []struct {
		code   errs.Code
		status int
	}{
		{errs.NameRequired, http.StatusBadRequest},
		{errs.DateConflict, http.StatusBadRequest},
		{errs.MaxBootcampsReached, http.StatusBadRequest},
		{errs.BootcampNotFound, http.StatusNotFound},
		{errs.UserNotFound, http.StatusNotFound},
		{errs.EnrollmentNotFound, http.StatusNotFound},
		{errs.BootcampAlreadyExists, http.StatusConflict},
		{errs.UserAlreadyEnrolled, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			Fail(rec, "msg-1", errs.NewBusiness(tc.code))

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != string(tc.code) || body.Error == "" {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestFailHidesTechnicalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, "msg-1", errs.NewTechnical("capacity-service", errors.New("dial tcp: connection refused")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Something went wrong, please try again" {
		t.Fatalf("internals must not leak: %+v", body)
	}
	if body.Code != "" {
		t.Fatalf("technical failures carry no business code: %+v", body)
	}
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	var dst struct{}
	if Decode(rec, req, &dst) {
		t.Fatal("expected false for an unreadable body")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
