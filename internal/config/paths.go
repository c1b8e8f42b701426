package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the directories the application reads from and writes to
type Paths struct {
	WorkingDir    string
	ExecutableDir string
	DataFile      string
	LogsDir       string
}

// GetPaths resolves the application paths for cfg.
// Relative entries are looked up in the working directory first and then next to the executable.
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	exeDir, err := ExecutableDir()
	if err != nil {
		return nil, err
	}

	logsDir := filepath.Dir(cfg.Logging.FilePath)
	if !filepath.IsAbs(logsDir) {
		logsDir = filepath.Join(wd, logsDir)
	}

	return &Paths{
		WorkingDir:    wd,
		ExecutableDir: exeDir,
		DataFile:      ResolvePath(cfg.Data.Path),
		LogsDir:       logsDir,
	}, nil
}

// ExecutableDir returns the directory holding the running binary with symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// ResolvePath makes a configured path absolute.
// An absolute path is returned unchanged. A relative path that exists under the
// working directory wins over one next to the executable; when neither exists
// the working-directory form is returned so error messages name the expected location.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	if abs, err := filepath.Abs(p); err == nil && FileExists(abs) {
		return abs
	}

	if exeDir, err := ExecutableDir(); err == nil {
		candidate := filepath.Join(exeDir, p)
		if FileExists(candidate) {
			return candidate
		}
	}

	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// FileExists checks if a file or directory exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDirectories creates the directories the application writes to
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.LogsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %w", p.LogsDir, err)
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution",
		slog.String("working_dir", p.WorkingDir),
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("data_file", p.DataFile),
		slog.Bool("data_file_exists", FileExists(p.DataFile)),
		slog.String("logs_dir", p.LogsDir))
}
