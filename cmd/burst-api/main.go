package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"BurstSpectra/internal/config"
	"BurstSpectra/internal/logger"
	"BurstSpectra/internal/query"

	"github.com/gorilla/mux"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.InitLog("info", false)
		logger.MainLog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.InitLog(cfg.Log.Level, cfg.Log.ReportCaller); err != nil {
		logger.MainLog.Warnf("Bad log level in config, using info: %v", err)
	}

	if !cfg.Writers.ClickHouse.Enabled {
		logger.ApiLog.Fatal("ClickHouse writer is not enabled in config. API server cannot start.")
	}

	querier, err := query.NewClickHouseQuerier(cfg.Writers.ClickHouse)
	if err != nil {
		logger.ApiLog.Fatalf("Failed to create querier: %v", err)
	}

	apiHandler := &APIHandler{querier: querier}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/runs", apiHandler.listRunsHandler).Methods("GET")
	r.HandleFunc("/api/v1/runs/{id}", apiHandler.getRunHandler).Methods("GET")
	r.HandleFunc("/api/v1/runs/{id}/bursts", apiHandler.listBurstsHandler).Methods("GET")
	r.HandleFunc("/api/v1/runs/{id}/categories", apiHandler.categoryStatsHandler).Methods("GET")
	r.HandleFunc("/api/v1/categories", apiHandler.aggregateCategoriesHandler).Methods("GET")

	server := &http.Server{
		Addr:    cfg.API.ListenAddr,
		Handler: r,
	}

	go func() {
		logger.ApiLog.Infof("API server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ApiLog.Fatalf("Could not listen on %s: %v", server.Addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.ApiLog.Info("API server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.ApiLog.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.ApiLog.Info("API server exited.")
}

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	querier query.Querier
}

// listRunsHandler lists recent analysis runs; ?limit caps the result.
func (h *APIHandler) listRunsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.querier.ListRuns(r.Context(), limit)
	if err != nil {
		logger.ApiLog.Errorf("Failed to list runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// getRunHandler returns one run's summary.
func (h *APIHandler) getRunHandler(w http.ResponseWriter, r *http.Request) {
	run, err := h.querier.GetRun(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.ApiLog.Errorf("Failed to get run: %v", err)
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

// listBurstsHandler returns one run's bursts in trace order. Optional query
// parameters: ?category filters by burst category, ?min_energy by energy.
func (h *APIHandler) listBurstsHandler(w http.ResponseWriter, r *http.Request) {
	filter := query.BurstFilter{Category: r.URL.Query().Get("category")}
	if s := r.URL.Query().Get("min_energy"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			http.Error(w, "invalid min_energy", http.StatusBadRequest)
			return
		}
		filter.MinEnergy = v
	}

	bursts, err := h.querier.ListBursts(r.Context(), mux.Vars(r)["id"], filter)
	if err != nil {
		logger.ApiLog.Errorf("Failed to list bursts: %v", err)
		http.Error(w, "failed to list bursts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, bursts)
}

// categoryStatsHandler returns one run's category rollup.
func (h *APIHandler) categoryStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.querier.CategoryStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.ApiLog.Errorf("Failed to get category stats: %v", err)
		http.Error(w, "failed to get category stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

// aggregateCategoriesHandler sums the category rollup across runs;
// ?trace restricts the aggregation to one trace name.
func (h *APIHandler) aggregateCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	totals, err := h.querier.AggregateCategories(r.Context(), r.URL.Query().Get("trace"))
	if err != nil {
		logger.ApiLog.Errorf("Failed to aggregate categories: %v", err)
		http.Error(w, "failed to aggregate categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, totals)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ApiLog.Errorf("Failed to encode response: %v", err)
	}
}
