package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"studentdesk/internal/student"
)

const (
	// DirEnv overrides the export directory (also used by tests).
	DirEnv = "STUDENTDESK_EXPORT_DIR"
	// DefaultBase is the export directory under the user's home.
	DefaultBase = ".studentdesk/exports"
)

// Store writes export files into one directory.
// Layout: <dir>/students-<yyyymmdd-hhmmss>[-N].<csv|pdf>
type Store struct {
	baseDir string
	now     func() time.Time
}

// NewStore creates a store rooted at dir, or at $STUDENTDESK_EXPORT_DIR,
// or at ~/.studentdesk/exports, in that order.
func NewStore(dir string) (*Store, error) {
	base := dir
	if base == "" {
		base = os.Getenv(DirEnv)
	}
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, DefaultBase)
	}
	return &Store{baseDir: base, now: time.Now}, nil
}

// BaseDir returns the export directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// maxSameSecond bounds the -N suffixes tried for exports sharing a timestamp.
const maxSameSecond = 100

// Path returns the file path an export at t would be written to when no
// other export exists for the same second.
func (s *Store) Path(format Format, t time.Time) string {
	return s.path(format, t, 1)
}

func (s *Store) path(format Format, t time.Time, n int) string {
	stamp := t.Format("20060102-150405")
	if n > 1 {
		stamp = fmt.Sprintf("%s-%d", stamp, n)
	}
	return filepath.Join(s.baseDir, fmt.Sprintf("students-%s.%s", stamp, format))
}

// create writes data to a file that did not exist before, adding a -N
// suffix when earlier exports took the timestamped name.
func (s *Store) create(format Format, t time.Time, data []byte) (string, error) {
	for n := 1; n <= maxSameSecond; n++ {
		path := s.path(format, t, n)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}
	return "", fmt.Errorf("%d exports already exist for %s", maxSameSecond, t.Format("20060102-150405"))
}

// Write renders records in format and writes them to a new file.
// It returns the path written.
func (s *Store) Write(format Format, title string, records []student.Record) (string, error) {
	ds := NewDataset(records)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = RenderCSV(ds)
	case FormatPDF:
		data, err = RenderPDF(ds, title)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path, err := s.create(format, s.now(), data)
	if err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
