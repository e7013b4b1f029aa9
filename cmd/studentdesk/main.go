package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"studentdesk/internal/api"
	"studentdesk/internal/config"
	"studentdesk/internal/export"
	"studentdesk/internal/logger"
	"studentdesk/internal/telemetry"
	"studentdesk/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.PathEnv+")")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: studentdesk [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Studentdesk is a terminal console for the student records API.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.NewProvider(ctx, cfg.OTel.Endpoint, cfg.OTel.ServiceName)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("trace shutdown", zap.Error(err))
		}
	}()

	client := api.New(cfg.StudentsURL(),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(log),
		api.WithTracer(tp.Tracer()),
	)

	var exporter ui.Exporter
	if store, err := export.NewStore(cfg.Export.Dir); err != nil {
		log.Warn("export disabled", zap.Error(err))
	} else {
		exporter = store
	}

	log.Info("starting", zap.String("api", cfg.StudentsURL()))
	app := ui.NewAppModel(ui.Options{
		API:           client,
		Exporter:      exporter,
		Logger:        log,
		DateLayout:    cfg.UI.DateLayout,
		PhotoMaxBytes: cfg.Photo.MaxBytes,
		Context:       ctx,
	})
	defer app.Close()

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
