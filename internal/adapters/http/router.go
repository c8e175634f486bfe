package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Shashank2985/Cannon/internal/config"
	"github.com/Shashank2985/Cannon/internal/core/ports"
	"github.com/Shashank2985/Cannon/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	submitter ports.ScanSubmitter
	analyzer  ports.ScanAnalyzer
	reader    ports.ScanReader
	ranking   ports.RankingService
	metrics   *metrics.HTTPServerMetrics
	cfg       config.Config
}

func NewRouter(
	submitter ports.ScanSubmitter,
	analyzer ports.ScanAnalyzer,
	reader ports.ScanReader,
	ranking ports.RankingService,
	httpMetrics *metrics.HTTPServerMetrics,
	cfg config.Config,
) *Router {
	return &Router{
		submitter: submitter,
		analyzer:  analyzer,
		reader:    reader,
		ranking:   ranking,
		metrics:   httpMetrics,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/metrics", rt.metrics.Handler())

	api := http.NewServeMux()
	api.HandleFunc("/v1/scans", rt.submitScan)
	api.HandleFunc("/v1/scans/latest", rt.latestScan)
	api.HandleFunc("/v1/scans/history", rt.scanHistory)
	api.HandleFunc("/v1/scans/", rt.scanSubroutes)
	api.HandleFunc("/v1/leaderboard", rt.leaderboard)
	api.HandleFunc("/v1/leaderboard/me", rt.myRank)

	var protected http.Handler = identityMiddleware(api)
	if rt.cfg.APIRateLimitRPS > 0 {
		protected = rateLimitMiddleware(protected, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	}
	if rt.cfg.APIMaxConcurrent > 0 {
		protected = backpressureMiddleware(protected, rt.cfg.APIMaxConcurrent, 100*time.Millisecond)
	}
	mux.Handle("/v1/", protected)

	handler := rt.metrics.Middleware(serviceName, mux)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	identity := identityFromContext(r.Context())

	// MaxBytesReader caps the whole body; ParseMultipartForm's argument
	// is only the in-memory threshold before parts spill to disk.
	r.Body = http.MaxBytesReader(w, r.Body, int64(3*rt.cfg.MaxImageBytes)+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			rt.metrics.RecordSubmit(serviceName, "rejected")
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body exceeds the size limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	images := make(map[string][]byte, 3)
	for _, field := range []string{"front_image", "left_image", "right_image"} {
		data, err := rt.readImageField(r, field)
		if err != nil {
			rt.metrics.RecordSubmit(serviceName, "rejected")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		images[field] = data
	}

	scan, err := rt.submitter.Submit(r.Context(), identity, images["front_image"], images["left_image"], images["right_image"])
	if err != nil {
		rt.metrics.RecordSubmit(serviceName, "error")
		rt.writeError(w, err)
		return
	}

	rt.metrics.RecordSubmit(serviceName, "accepted")
	writeJSON(w, http.StatusCreated, scan)
}

func (rt *Router) readImageField(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New("multipart field '" + field + "' is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(rt.cfg.MaxImageBytes)+1))
	if err != nil {
		return nil, errors.New("read '" + field + "' failed")
	}
	if len(data) > rt.cfg.MaxImageBytes {
		return nil, errors.New("'" + field + "' exceeds the size limit")
	}
	return data, nil
}

// scanSubroutes dispatches /v1/scans/{id} and /v1/scans/{id}/analyze.
func (rt *Router) scanSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/scans/")
	if rest == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scan id is required"})
		return
	}

	if scanID, ok := strings.CutSuffix(rest, "/analyze"); ok {
		rt.analyzeScan(w, r, scanID)
		return
	}
	if strings.Contains(rest, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	rt.getScan(w, r, rest)
}

func (rt *Router) analyzeScan(w http.ResponseWriter, r *http.Request, scanID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if scanID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scan id is required"})
		return
	}
	identity := identityFromContext(r.Context())

	start := time.Now()
	outcome, err := rt.analyzer.Analyze(r.Context(), scanID, identity.UserID)
	if err != nil {
		rt.metrics.RecordAnalyze(serviceName, "error", time.Since(start))
		rt.writeError(w, err)
		return
	}

	rt.metrics.RecordAnalyze(serviceName, string(outcome.Status), time.Since(start))
	writeJSON(w, http.StatusOK, outcome)
}

func (rt *Router) getScan(w http.ResponseWriter, r *http.Request, scanID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	identity := identityFromContext(r.Context())

	projection, err := rt.reader.GetByID(r.Context(), scanID, identity)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

func (rt *Router) latestScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	identity := identityFromContext(r.Context())

	projection, err := rt.reader.Latest(r.Context(), identity)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

func (rt *Router) scanHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	identity := identityFromContext(r.Context())

	history, err := rt.reader.History(r.Context(), identity.UserID, queryLimit(r, rt.cfg.HistoryLimit))
	if err != nil {
		rt.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scans": history})
}

func (rt *Router) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	page, err := rt.ranking.Leaderboard(r.Context(), queryLimit(r, rt.cfg.LeaderboardLimit))
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.metrics.RecordLeaderboardRead(serviceName, "board")
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) myRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	identity := identityFromContext(r.Context())

	view, err := rt.ranking.MyRank(r.Context(), identity.UserID)
	if err != nil {
		rt.writeError(w, err)
		return
	}
	rt.metrics.RecordLeaderboardRead(serviceName, "me")
	writeJSON(w, http.StatusOK, view)
}

func (rt *Router) writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback
	}
	limit := 0
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return fallback
		}
		limit = limit*10 + int(ch-'0')
		if limit > 1000 {
			return fallback
		}
	}
	if limit <= 0 {
		return fallback
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
