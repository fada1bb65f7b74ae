// ABOUTME: Read-only HTTP server exposing pipeline views as JSON
// ABOUTME: Also serves rendered graphs and the Prometheus metrics endpoint
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/dealdesk/db"
	"github.com/harperreed/dealdesk/filter"
	"github.com/harperreed/dealdesk/models"
	"github.com/harperreed/dealdesk/pipeline"
	"github.com/harperreed/dealdesk/repository"
	"github.com/harperreed/dealdesk/viz"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	repos     *repository.Repositories
	logger    *log.Logger
	generator *viz.GraphGenerator
	now       func() time.Time
}

func NewServer(repos *repository.Repositories, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		repos:     repos,
		logger:    logger,
		generator: viz.NewGraphGenerator(repos),
		now:       time.Now,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/pipeline", s.handlePipeline)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/contacts", s.handleContacts)
	mux.HandleFunc("GET /api/companies", s.handleCompanies)
	mux.HandleFunc("GET /api/deals", s.handleDeals)
	mux.HandleFunc("GET /api/deals/{id}", s.handleDeal)
	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.logRequests(mux)
}

// Start listens on port until ctx is canceled.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "addr", "http://localhost"+srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	deals, err := s.repos.Deals.GetAll(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	board := pipeline.Aggregate(filter.Deals().Apply(deals, r.URL.Query().Get("q"), nil))
	pipeline.LogIssues(s.logger, board.Issues)
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.repos.Summary(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.repos.Report(r.Context(), s.now())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.repos.Contacts.GetAll(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	respondList(w, r, contacts, filter.Contacts())
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.repos.Companies.GetAll(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	respondList(w, r, companies, filter.Companies())
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	deals, err := s.repos.Deals.GetAll(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	respondList(w, r, deals, filter.Deals())
}

func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid deal id")
		return
	}
	deal, err := s.repos.Deals.GetByID(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

// handleGraph renders the pipeline graph, or the account graph when kind=accounts.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := query.Get("format")
	if name == "" {
		name = "svg"
	}
	format, err := viz.ParseFormat(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var data []byte
	switch query.Get("kind") {
	case "", "pipeline":
		data, err = s.generator.GeneratePipelineGraph(r.Context(), format)
	case "accounts":
		var companyID *int64
		if raw := query.Get("company"); raw != "" {
			id, perr := strconv.ParseInt(raw, 10, 64)
			if perr != nil {
				writeError(w, http.StatusBadRequest, "invalid company id")
				return
			}
			companyID = &id
		}
		data, err = s.generator.GenerateAccountGraph(r.Context(), companyID, format)
	default:
		writeError(w, http.StatusBadRequest, "unknown graph kind")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(name))
	_, _ = w.Write(data)
}

// respondList applies q, facet parameters and where to items.
func respondList[T interface{ RecordID() int64 }](w http.ResponseWriter, r *http.Request, items []T, engine *filter.Engine[T]) {
	query := r.URL.Query()
	facets := make(map[string]string)
	for _, key := range engine.FacetKeys() {
		facets[key] = query.Get(key)
	}
	matched := engine.Apply(items, query.Get("q"), facets)

	where, err := filter.CompileWhere(query.Get("where"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	matched, err = filter.ApplyWhere(matched, where)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, matched)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func contentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	default:
		return "text/vnd.graphviz"
	}
}
