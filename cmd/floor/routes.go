package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getcycles "floor-metrics/http-server/cycles/get"
	savecycles "floor-metrics/http-server/cycles/save"
	generate_excel "floor-metrics/http-server/generate-report/generate-excel"
	"floor-metrics/http-server/metrics/aggregate"
	"floor-metrics/http-server/metrics/backfill"
	"floor-metrics/http-server/metrics/recompute"
	"floor-metrics/http-server/metrics/repair"
	getunits "floor-metrics/http-server/units/get"
	"floor-metrics/internal/config"
	"floor-metrics/internal/middleware/auth"
	"floor-metrics/internal/service/metrics"
	"floor-metrics/internal/service/report"
	"floor-metrics/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, engine *metrics.MetricService, reports *report.ExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// data entry
	router.Post("/api/cycles", savecycles.SaveCycleRecord(log, storage))
	router.Get("/api/cycles", getcycles.GetCyclesByDay(log, storage))
	router.Get("/api/units", getunits.GetUnits(log, storage))

	// metrics engine
	router.Post("/api/metrics/recompute", recompute.RecomputeMetric(log, engine))
	router.Post("/api/metrics/backfill", backfill.BackfillMetrics(log, engine))
	router.Get("/api/metrics/summary", aggregate.GetPeriodSummary(log, engine))

	// reporting
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, reports))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/metrics/repair-attainment", repair.RepairAttainment(log, engine))

	router.Mount("/api/admin", adminRouter)

	// static files, vue frontend
	frontendDir := "./frontend-dist"
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Error("frontend dir not found", slog.String("path", frontendDir))
		os.Exit(1)
	}

	fileServer := http.StripPrefix("/", http.FileServer(http.Dir(frontendDir)))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).Handle("/admin/*",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
		}),
	)

	// SPA fallback: serve the file if it exists, index.html otherwise
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, r.URL.Path)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})

	return router
}
