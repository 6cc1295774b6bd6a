package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vertextoedge/course-archiver/internal/adapter/filesystem"
	"github.com/vertextoedge/course-archiver/internal/adapter/satcool"
	"github.com/vertextoedge/course-archiver/internal/adapter/sqlite"
	"github.com/vertextoedge/course-archiver/internal/config"
	"github.com/vertextoedge/course-archiver/internal/domain"
	"github.com/vertextoedge/course-archiver/internal/domain/event"
	"github.com/vertextoedge/course-archiver/internal/logger"
	"github.com/vertextoedge/course-archiver/internal/service/builder"
	"github.com/vertextoedge/course-archiver/internal/service/downloader"
	"github.com/vertextoedge/course-archiver/internal/service/manifest"
	"github.com/vertextoedge/course-archiver/internal/util/ratelimiter"
)

const version = "0.1.0"

const staleTempFileMaxAge = 24 * time.Hour

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting course-archiver",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("course_id", cfg.Course.ID),
	)

	// Cancel the run on interrupt; the current asset finishes cleanly
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zapLogger.Warn("shutdown signal received, aborting run",
			zap.String("signal", sig.String()))
		cancel()
	}()

	// Initialize filesystem manager over the output directory
	fsManager, err := filesystem.NewManagerWithBufferSize(cfg.Download.OutputDir, cfg.Download.GetBufferSize())
	if err != nil {
		zapLogger.Fatal("failed to create filesystem manager", zap.Error(err))
	}

	if removed, err := fsManager.CleanStaleTempFiles(staleTempFileMaxAge); err != nil {
		zapLogger.Warn("failed to clean stale temp files", zap.Error(err))
	} else if removed > 0 {
		zapLogger.Info("removed stale temp files", zap.Int("count", removed))
	}

	if usage, err := fsManager.GetDiskUsage(); err != nil {
		zapLogger.Warn("failed to read disk usage", zap.Error(err))
	} else {
		zapLogger.Info("output disk",
			zap.String("free", humanize.Bytes(usage.Free)),
			zap.String("total", humanize.Bytes(usage.Total)))
	}

	// Open run-history database
	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Download.OutputDir, "history.db")
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		zapLogger.Fatal("failed to open database", zap.Error(err), zap.String("path", dbPath))
	}
	defer store.Close()

	if last, err := store.LastRun(cfg.Course.ID); err == nil {
		zapLogger.Info("previous run for this course",
			zap.String("run_id", last.ID),
			zap.Time("started_at", last.StartedAt),
			zap.Int("downloaded", last.Stats.Downloaded),
			zap.Int("failed", last.Stats.Failed),
		)
	} else if !errors.Is(err, domain.ErrNotFound) {
		zapLogger.Warn("failed to read run history", zap.Error(err))
	}

	// Wire the event dispatcher: everything is logged, asset outcomes
	// are additionally recorded in the history ledger
	runID := uuid.NewString()
	dispatcher := event.NewInMemoryDispatcher()
	dispatcher.Subscribe(event.NewLoggingHandler(zapLogger))
	dispatcher.Subscribe(sqlite.NewHistoryHandler(store, runID, zapLogger))

	// Create sat.cool API client
	client := satcool.NewClientWithConfig(cfg.API.BaseURL, cfg.Course.ID, cfg.API.Token,
		&satcool.ClientConfig{
			BufferSizeMB: cfg.Download.BufferSizeMB,
		})

	courseDir := fmt.Sprintf("course_%d", cfg.Course.ID)
	manifestStore := manifest.NewStore(fsManager, dispatcher, zapLogger)

	var built *domain.Manifest
	runRecorded := false

	recordRun := func(courseName string) {
		run := &domain.Run{
			ID:         runID,
			CourseID:   cfg.Course.ID,
			CourseName: courseName,
			StartedAt:  time.Now(),
		}
		if err := store.CreateRun(run); err != nil {
			zapLogger.Warn("failed to record run", zap.Error(err))
			return
		}
		runRecorded = true
	}

	if cfg.Source.FetchRemote {
		var tree *domain.CourseTree
		if cfg.Source.FromPage {
			pageURL := fmt.Sprintf(cfg.Course.PageURL, cfg.Course.ID)
			tree, err = client.FetchCoursePage(pageURL, cfg.API.Cookies)
		} else {
			tree, err = client.FetchCourseTree()
		}
		if err != nil {
			zapLogger.Fatal("failed to fetch course tree", zap.Error(err))
		}
		recordRun(tree.CourseName)

		limiter := ratelimiter.New(cfg.Download.GetRequestInterval())
		buildService := builder.New(client, limiter, dispatcher, zapLogger)

		var links *domain.EmbedLinks
		built, links, err = buildService.Build(ctx, tree)
		if err != nil {
			zapLogger.Fatal("failed to build manifest", zap.Error(err))
		}

		if _, err := manifestStore.Save(built, courseDir); err != nil {
			zapLogger.Fatal("failed to save manifest", zap.Error(err))
		}
		if _, err := manifestStore.WriteStructureSummary(built, courseDir); err != nil {
			zapLogger.Fatal("failed to save structure summary", zap.Error(err))
		}
		if _, err := manifestStore.WriteEmbedLinks(links, courseDir); err != nil {
			zapLogger.Fatal("failed to save embed links", zap.Error(err))
		}
	}

	// Pick the download source; a reloaded manifest file wins over the
	// freshly built one
	var toDownload *domain.Manifest
	switch {
	case cfg.Source.UseExistingManifestFile:
		m, err := manifestStore.Load(cfg.Source.ManifestFile)
		if err != nil {
			zapLogger.Fatal("failed to load manifest file", zap.Error(err),
				zap.String("path", cfg.Source.ManifestFile))
		}
		toDownload = m
	case cfg.Source.UseFetchedManifest:
		toDownload = built
	}

	if toDownload == nil {
		if runRecorded {
			if err := store.FinishRun(runID, time.Now(), domain.RunStats{}); err != nil {
				zapLogger.Warn("failed to finalize run record", zap.Error(err))
			}
		}
		zapLogger.Info("no download pass requested, done",
			zap.String("run_id", runID))
		return
	}

	if !runRecorded {
		recordRun(toDownload.CourseName)
	}

	downloadService := downloader.New(&downloader.Config{
		CourseID:       cfg.Course.ID,
		DesiredQuality: cfg.Download.Quality,
		Progress:       cfg.Download.Progress,
	}, client, fsManager, dispatcher, zapLogger)

	stats, downloadErr := downloadService.Download(ctx, toDownload)

	if runRecorded {
		if err := store.FinishRun(runID, time.Now(), stats); err != nil {
			zapLogger.Warn("failed to finalize run record", zap.Error(err))
		}
	}

	if downloadErr != nil {
		zapLogger.Fatal("download pass aborted", zap.Error(downloadErr))
	}

	zapLogger.Info("archive complete",
		zap.String("run_id", runID),
		zap.String("course", toDownload.CourseName),
		zap.Int("downloaded", stats.Downloaded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.String("total_size", humanize.Bytes(uint64(stats.Bytes))),
	)
}
