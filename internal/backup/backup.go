// Package backup snapshots the database with pg_dump after each crawl.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

type Dumper struct {
	dir         string
	databaseURL string
	logger      *slog.Logger
}

func NewDumper(dir, databaseURL string, logger *slog.Logger) *Dumper {
	return &Dumper{
		dir:         dir,
		databaseURL: databaseURL,
		logger:      logger.With("component", "backup"),
	}
}

// CreateDump writes a timestamped SQL dump into the backup directory and
// returns its path. A failed dump leaves no partial file behind.
func (d *Dumper) CreateDump(ctx context.Context) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("backup_%s.sql", time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(d.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dump file: %w", err)
	}
	defer file.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "pg_dump", "--dbname", d.databaseURL)
	cmd.Stdout = file
	cmd.Stderr = &stderr

	d.logger.Info("creating database dump", "path", path)

	if err := cmd.Run(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("pg_dump failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	d.logger.Info("database dump created", "path", path)
	return path, nil
}
