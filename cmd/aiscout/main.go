package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"aiscout/internal/app"
	"aiscout/internal/config"
	"aiscout/internal/logger"
	"aiscout/internal/metrics"
)

func main() {
	logger.Init()

	dateFlag := flag.String("date", "", "end date for a date-window search (YYYY-MM-DD)")
	rangeFlag := flag.Int("range", 7, "days to search backwards from -date")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Optional HTTP server for health checks and counters.
	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup error: %v", err)
	}
	defer a.Close()

	if *dateFlag != "" {
		endDate, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("invalid -date value %q: %v", *dateFlag, err)
		}
		if err := a.RunByDate(ctx, endDate, *rangeFlag); err != nil {
			metrics.Global.SetError(err.Error())
			log.Fatalf("date cycle failed: %v", err)
		}
		return
	}

	if err := a.RunCycle(ctx); err != nil {
		metrics.Global.SetError(err.Error())
		log.Fatalf("cycle failed: %v", err)
	}
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
