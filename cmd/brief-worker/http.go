package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type auditStore interface {
	InsertReportAudit(ctx context.Context, a models.ReportAudit) error
	ListReportAudit(ctx context.Context, imo string, limit int) ([]*models.ReportAudit, error)
	CountReportAudit(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type auditEntry struct {
	RequestID      string    `json:"request_id"`
	IMO            string    `json:"imo"`
	AccountID      *uint64   `json:"account_id,omitempty"`
	Outcome        string    `json:"outcome"`
	Degraded       bool      `json:"degraded"`
	HasCoordinates bool      `json:"has_coordinates"`
	GeneratedAt    time.Time `json:"generated_at"`
}

const maxAuditLimit = 200

func newWorkerRouter(store auditStore) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		n, err := store.CountReportAudit(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"reports_audited": n})
	})
	r.Get("/audit", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > maxAuditLimit {
			limit = 50
		}
		rows, err := store.ListReportAudit(r.Context(), r.URL.Query().Get("imo"), limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "audit unavailable"})
			return
		}
		out := make([]auditEntry, 0, len(rows))
		for _, a := range rows {
			out = append(out, auditEntry{
				RequestID:      a.RequestID,
				IMO:            a.IMO,
				AccountID:      a.AccountID,
				Outcome:        a.Outcome,
				Degraded:       a.Degraded,
				HasCoordinates: a.HasCoordinates,
				GeneratedAt:    a.GeneratedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
