package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"ghotracker/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version        string
	buildTime      string
	gitCommit      string
	dataPath       string
	loader         DatasetLoader
	searchInterest bool
	startTime      time.Time
	logger         *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service for the dataset at dataPath
func NewHealthService(dataPath string, loader DatasetLoader, searchInterest bool, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version),
		slog.String("data_path", dataPath))

	return &HealthService{
		version:        contracts.Version,
		buildTime:      contracts.BuildTime,
		gitCommit:      contracts.GitCommit,
		dataPath:       dataPath,
		loader:         loader,
		searchInterest: searchInterest,
		startTime:      time.Now(),
		logger:         logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready once the dataset has been loaded and cleaned
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dataset"] = hs.checkDatasetHealth(ctx)
	status.Services["search_interest"] = hs.checkSearchInterestHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status == "not_ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":      hs.version,
		"build_time":   hs.buildTime,
		"git_commit":   hs.gitCommit,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"data_format":  contracts.DataFormatVersion,
		"api_version":  contracts.APIVersion,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// checkDatasetHealth loads the dataset if needed; a loaded dataset is served from memory
func (hs *HealthService) checkDatasetHealth(ctx context.Context) ServiceHealth {
	if hs.loader == nil {
		return ServiceHealth{Status: "not_ready", Message: "dataset loader not initialized"}
	}

	ds, err := hs.loader.Load(ctx, hs.dataPath)
	if err != nil {
		hs.logger.WarnContext(ctx, "dataset not ready",
			slog.String("path", hs.dataPath),
			slog.String("error", err.Error()))
		return ServiceHealth{
			Status:  "not_ready",
			Message: (&DatasetError{Path: hs.dataPath, Err: err}).Message(),
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d observations loaded", ds.Len()),
		Uptime:  time.Since(ds.LoadedAt).Round(time.Second).String(),
	}
}

// checkSearchInterestHealth never blocks readiness; the lookup degrades to warnings
func (hs *HealthService) checkSearchInterestHealth() ServiceHealth {
	if !hs.searchInterest {
		return ServiceHealth{Status: "disabled", Message: "search interest lookup is disabled"}
	}
	return ServiceHealth{Status: "ready", Message: "search interest lookup is enabled"}
}
