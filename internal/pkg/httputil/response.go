package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/onclass/bootcamp-api/internal/errs"
	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

// ErrorResponse is the standard error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response with the given data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// BadRequest writes a 400 error.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

// Fail maps a service-layer error onto the wire. Business errors surface
// with their registry code, message and field; everything else is logged and
// collapsed into a generic 500 (never leak internals).
func Fail(w http.ResponseWriter, messageID string, err error) {
	if b := errs.BusinessFrom(err); b != nil {
		JSON(w, businessStatus(b.Code), ErrorResponse{
			Error: b.Message,
			Code:  string(b.Code),
			Field: b.Field,
		})
		return
	}
	logger.Error("request failed", "message_id", messageID, "error", err)
	JSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "Something went wrong, please try again",
	})
}

func businessStatus(code errs.Code) int {
	switch code {
	case errs.BootcampNotFound, errs.UserNotFound, errs.EnrollmentNotFound:
		return http.StatusNotFound
	case errs.BootcampAlreadyExists, errs.UserAlreadyEnrolled:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Decode reads JSON from the request body into dst.
// Returns false and writes a 400 response if parsing fails.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		BadRequest(w, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
