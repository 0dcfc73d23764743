package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/onclass/bootcamp-api/internal/pkg/httputil"
)

// HealthHandler reports the reachability of the service's dependencies.
type HealthHandler struct {
	db  *sql.DB
	rdb *redis.Client
}

// NewHealthHandler creates the health handler. rdb may be nil when Redis
// is not configured.
func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check answers 200 when the database is reachable, 503 otherwise. Redis
// state is reported but never degrades the status: the outbox is optional.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	switch {
	case h.rdb == nil:
		status["redis"] = "disabled"
	case h.rdb.Ping(ctx).Err() != nil:
		status["redis"] = "unreachable"
	default:
		status["redis"] = "ok"
	}

	httputil.JSON(w, code, status)
}
