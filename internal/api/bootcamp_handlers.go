package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/metrics"
	"github.com/onclass/bootcamp-api/internal/pkg/httputil"
	"github.com/onclass/bootcamp-api/internal/service/bootcamp"
)

// dateLayout is the wire format for launch dates.
const dateLayout = "2006-01-02"

// BootcampHandler exposes bootcamp lifecycle endpoints.
type BootcampHandler struct {
	svc      *bootcamp.Service
	reporter *metrics.Reporter
}

// NewBootcampHandler creates the bootcamp handler. reporter may be nil.
func NewBootcampHandler(svc *bootcamp.Service, reporter *metrics.Reporter) *BootcampHandler {
	return &BootcampHandler{svc: svc, reporter: reporter}
}

type bootcampRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LaunchDate  string  `json:"launchDate"`
	Duration    int     `json:"duration"`
	CapacityIDs []int64 `json:"capacityIds"`
}

type bootcampResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LaunchDate  string  `json:"launchDate"`
	Duration    int     `json:"duration"`
	CapacityIDs []int64 `json:"capacityIds"`
}

type capacityResponse struct {
	ID           int64                      `json:"id"`
	Name         string                     `json:"name"`
	Technologies []domain.TechnologySummary `json:"technologies"`
}

type enrichedBootcampResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	LaunchDate  string             `json:"launchDate"`
	Duration    int                `json:"duration"`
	Capacities  []capacityResponse `json:"capacities"`
}

type pageResponse struct {
	Content       []enrichedBootcampResponse `json:"content"`
	Page          int                        `json:"page"`
	Size          int                        `json:"size"`
	TotalElements int64                      `json:"totalElements"`
	TotalPages    int                        `json:"totalPages"`
	First         bool                       `json:"first"`
	Last          bool                       `json:"last"`
}

func toBootcampResponse(b *domain.Bootcamp) bootcampResponse {
	ids := b.CapacityIDs
	if ids == nil {
		ids = []int64{}
	}
	return bootcampResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LaunchDate:  b.LaunchDate.Format(dateLayout),
		Duration:    b.Duration,
		CapacityIDs: ids,
	}
}

func toEnrichedResponse(b domain.BootcampWithCapacities) enrichedBootcampResponse {
	capacities := make([]capacityResponse, 0, len(b.Capacities))
	for _, c := range b.Capacities {
		techs := c.Technologies
		if techs == nil {
			techs = []domain.TechnologySummary{}
		}
		capacities = append(capacities, capacityResponse{ID: c.ID, Name: c.Name, Technologies: techs})
	}
	return enrichedBootcampResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LaunchDate:  b.LaunchDate.Format(dateLayout),
		Duration:    b.Duration,
		Capacities:  capacities,
	}
}

// Create registers a new bootcamp.
func (h *BootcampHandler) Create(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	var req bootcampRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	var launchDate time.Time
	if req.LaunchDate != "" {
		parsed, err := time.Parse(dateLayout, req.LaunchDate)
		if err != nil {
			httputil.BadRequest(w, "launchDate must be formatted as YYYY-MM-DD")
			return
		}
		launchDate = parsed
	}

	saved, err := h.svc.Register(r.Context(), &domain.Bootcamp{
		Name:        req.Name,
		Description: req.Description,
		LaunchDate:  launchDate,
		Duration:    req.Duration,
		CapacityIDs: req.CapacityIDs,
	}, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}

	if h.reporter != nil {
		h.reporter.ReportBootcampAsync(saved.ID, messageID, r.Header.Get("Authorization"))
	}
	httputil.Created(w, toBootcampResponse(saved))
}

type checkRequest struct {
	IDs []int64 `json:"ids"`
}

// CheckExist reports, for a batch of bootcamp ids, which ones exist.
func (h *BootcampHandler) CheckExist(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	var req checkRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	existing, err := h.svc.CheckExist(r.Context(), req.IDs, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}

	// JSON object keys are strings; stringify the ids.
	out := make(map[string]bool, len(existing))
	for id, ok := range existing {
		out[strconv.FormatInt(id, 10)] = ok
	}
	httputil.OK(w, map[string]any{"exists": out})
}

// List returns one page of bootcamps with resolved capacities.
func (h *BootcampHandler) List(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())
	p := parsePagination(r)

	page, err := h.svc.List(r.Context(), p, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}

	content := make([]enrichedBootcampResponse, 0, len(page.Content))
	for _, b := range page.Content {
		content = append(content, toEnrichedResponse(b))
	}
	httputil.OK(w, pageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	})
}

// GetByID returns a single bootcamp with resolved capacities.
func (h *BootcampHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "id must be numeric")
		return
	}

	b, err := h.svc.GetByID(r.Context(), id, messageID)
	if err != nil {
		httputil.Fail(w, messageID, err)
		return
	}
	httputil.OK(w, toEnrichedResponse(b))
}

// Delete removes a bootcamp, cascading to orphaned capacities upstream.
func (h *BootcampHandler) Delete(w http.ResponseWriter, r *http.Request) {
	messageID := MessageIDFrom(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.BadRequest(w, "id must be numeric")
		return
	}

	if err := h.svc.Delete(r.Context(), id, messageID); err != nil {
		httputil.Fail(w, messageID, err)
		return
	}
	httputil.NoContent(w)
}

// parsePagination reads page/size/sortBy/sortDirection query parameters.
// Invalid or missing values fall back to page 0, size 10, name ascending.
func parsePagination(r *http.Request) domain.PaginationRequest {
	p := domain.PaginationRequest{
		Page:          0,
		Size:          10,
		SortBy:        domain.SortByName,
		SortDirection: domain.SortAsc,
	}

	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 && v <= 100 {
		p.Size = v
	}
	if q.Get("sortBy") == string(domain.SortByTechnologyCount) {
		p.SortBy = domain.SortByTechnologyCount
	}
	if q.Get("sortDirection") == string(domain.SortDesc) {
		p.SortDirection = domain.SortDesc
	}
	return p
}
