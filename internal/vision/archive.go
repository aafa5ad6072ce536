package vision

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultKeep is how many screenshots the archive retains.
const DefaultKeep = 10

// Archive stores screenshots as screen_<timestamp>.png in a directory and
// keeps only the newest ones.
type Archive struct {
	dir    string
	keep   int
	now    func() time.Time
	logger *slog.Logger
}

func NewArchive(dir string, keep int, logger *slog.Logger) *Archive {
	if keep <= 0 {
		keep = DefaultKeep
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archive{dir: dir, keep: keep, now: time.Now, logger: logger}
}

// Dir returns the archive directory.
func (a *Archive) Dir() string { return a.dir }

// Save writes a PNG and prunes old screenshots. It returns the file path.
func (a *Archive) Save(data []byte) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	stamp := strings.Replace(a.now().Format("20060102_150405.000000"), ".", "_", 1)
	path := filepath.Join(a.dir, "screen_"+stamp+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	a.logger.Debug("screenshot saved", "path", path)
	if err := a.Cleanup(); err != nil {
		a.logger.Warn("screenshot cleanup failed", "err", err)
	}
	return path, nil
}

// List returns archived screenshots, oldest first.
func (a *Archive) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "screen_") || !strings.HasSuffix(name, ".png") {
			continue
		}
		paths = append(paths, filepath.Join(a.dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// Cleanup removes all but the newest keep screenshots.
func (a *Archive) Cleanup() error {
	paths, err := a.List()
	if err != nil {
		return err
	}
	if len(paths) <= a.keep {
		return nil
	}
	for _, p := range paths[:len(paths)-a.keep] {
		if err := os.Remove(p); err != nil {
			return err
		}
		a.logger.Debug("removed old screenshot", "path", p)
	}
	return nil
}
