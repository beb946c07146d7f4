package briefing_api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BearBump/VesselBrief/internal/logging"
	"github.com/BearBump/VesselBrief/internal/services/briefing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/pkg/errors"
)

const (
	AnonymousDisplayName = "Estimado usuario"

	msgMissingIMO      = "Falta el número IMO."
	msgCountryNotFound = "País no encontrado."
	msgTooManyRequests = "Demasiadas solicitudes, intente nuevamente en un minuto."
	msgInternal        = "Error interno del servidor."
)

type reportRequest struct {
	IMO string `json:"imo"`
}

func (a *API) generateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgMissingIMO})
		return
	}
	imo := strings.TrimSpace(req.IMO)
	if imo == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgMissingIMO})
		return
	}

	displayName := AnonymousDisplayName
	var accountID *uint64
	if a.deps.Sessions != nil {
		if claims, err := a.deps.Sessions.FromRequest(r); err == nil {
			if claims.GivenNames != "" {
				displayName = claims.GivenNames
			}
			if id, err := claims.AccountID(); err == nil {
				accountID = &id
			}
		}
	}

	if !a.allowReport(r, accountID) {
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: msgTooManyRequests})
		return
	}

	rep := a.deps.Reports.BuildReport(r.Context(), imo, displayName)

	if a.deps.Audit != nil {
		a.deps.Audit.ReportGenerated(r.Context(), imo, accountID, logging.RequestIDFromContext(r.Context()), rep)
	}

	writeJSON(w, http.StatusOK, rep)
}

// allowReport applies the per-minute quota. Limiter failures let the request through.
func (a *API) allowReport(r *http.Request, accountID *uint64) bool {
	if a.deps.Limiter == nil || a.opts.ReportPerMinute <= 0 {
		return true
	}

	subject := ""
	if accountID != nil {
		subject = "acct:" + strconv.FormatUint(*accountID, 10)
	} else {
		ip, err := httprate.KeyByIP(r)
		if err != nil {
			return true
		}
		subject = "ip:" + ip
	}
	key := "rl:report:" + subject + ":" + strconv.FormatInt(a.now().Unix()/60, 10)

	ok, n, err := a.deps.Limiter.Allow(r.Context(), key, int64(a.opts.ReportPerMinute), time.Minute)
	if err != nil {
		slog.WarnContext(r.Context(), "report quota check failed", "error", err)
		return true
	}
	if !ok {
		slog.InfoContext(r.Context(), "report quota exceeded", "subject", subject, "count", n)
	}
	return ok
}

func (a *API) portWeather(w http.ResponseWriter, r *http.Request) {
	out, err := a.deps.Ports.ForCountry(r.Context(), chi.URLParam(r, "pais"))
	if errors.Is(err, briefing.ErrCountryNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: msgCountryNotFound})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "port weather failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgInternal})
		return
	}
	writeJSON(w, http.StatusOK, out)
}
