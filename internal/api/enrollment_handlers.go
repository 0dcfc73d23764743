package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/onclass/bootcamp-api/internal/metrics"
	"github.com/onclass/bootcamp-api/internal/pkg/httputil"
	"github.com/onclass/bootcamp-api/internal/service/enrollment"
)

// HeaderUserID carries the caller identity resolved by the upstream
// gateway. The service trusts it as-is.
const HeaderUserID = "X-User-Id"

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	svc      *enrollment.Service
	reporter *metrics.Reporter
}

// NewEnrollmentHandler creates the enrollment handler. reporter may be nil.
func NewEnrollmentHandler(svc *enrollment.Service, reporter *metrics.Reporter) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc, reporter: reporter}
}

type enrollRequest struct {
	BootcampID int64 `json:"bootcampId"`
}

type enrollmentResponse struct {
	ID         int64  `json:"id"`
	BootcampID int64  `json:"bootcampId"`
	UserID     int64  `json:"userId"`
	EnrolledAt string `json:"enrolledAt"`
}

// Enroll enrolls the calling user in a bootcamp. The user id comes from
// the X-User-Id header resolved upstream.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	userIDHeader := r.Header.Get(HeaderUserID)
	if userIDHeader == "" {
		httputil.BadRequest(w, "X-User-Id header is required")
		return
	}
	userID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		httputil.BadRequest(w, "X-User-Id must be numeric")
		return
	}

	var req enrollRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.Enroll(r.Context(), req.BootcampID, userID, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}

	if h.reporter != nil {
		h.reporter.ReportBootcampAsync(e.BootcampID, messageID, r.Header.Get("Authorization"))
	}
	httputil.Created(w, enrollmentResponse{
		ID:         e.ID,
		BootcampID: e.BootcampID,
		UserID:     e.UserID,
		EnrolledAt: e.EnrolledAt.UTC().Format(time.RFC3339),
	})
}

// Unenroll removes an active enrollment.
func (h *EnrollmentHandler) Unenroll(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	bootcampID, err := strconv.ParseInt(chi.URLParam(r, "bootcampId"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "bootcampId must be numeric")
		return
	}
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "userId must be numeric")
		return
	}

	if err := h.svc.Unenroll(r.Context(), bootcampID, userID, messageID); err != nil {
		httputil.Fail(w, messageID, err)
		return
	}

	if h.reporter != nil {
		h.reporter.ReportBootcampAsync(bootcampID, messageID, r.Header.Get("Authorization"))
	}
	httputil.NoContent(w)
}

// GetUserBootcamps returns the bootcamps the given user is enrolled in.
func (h *EnrollmentHandler) GetUserBootcamps(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "userId must be numeric")
		return
	}

	bootcamps, err := h.svc.UserBootcamps(r.Context(), userID, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}

	out := make([]bootcampResponse, 0, len(bootcamps))
	for i := range bootcamps {
		out = append(out, toBootcampResponse(&bootcamps[i]))
	}
	httputil.OK(w, out)
}

// GetBootcampUsers returns the ids of users enrolled in a bootcamp.
func (h *EnrollmentHandler) GetBootcampUsers(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	bootcampID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "id must be numeric")
		return
	}

	userIDs, err := h.svc.UserIDsByBootcamp(r.Context(), bootcampID, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}
	if userIDs == nil {
		userIDs = []int64{}
	}
	httputil.OK(w, userIDs)
}
