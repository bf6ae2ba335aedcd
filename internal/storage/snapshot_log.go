package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"marketScope/internal/model"
)

// SnapshotLog appends completed datasets to a JSON Lines file, one coin per line.
// A dataset is encoded in full before anything touches the file and then lands
// in a single append, so a failed encode leaves the log as it was.
type SnapshotLog struct {
	path string

	mu      sync.Mutex
	dirDone bool
}

func NewSnapshotLog(path string) *SnapshotLog {
	return &SnapshotLog{path: path}
}

// Path is the file the log appends to.
func (l *SnapshotLog) Path() string {
	return l.path
}

func (l *SnapshotLog) PutSnapshot(records []model.SnapshotRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := encodeBatch(records)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureDir(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open snapshot log: %w", err)
	}
	if _, err := f.Write(batch); err != nil {
		f.Close()
		return fmt.Errorf("append %d snapshot records: %w", len(records), err)
	}
	return f.Close()
}

func (l *SnapshotLog) ensureDir() error {
	if l.dirDone {
		return nil
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	l.dirDone = true
	return nil
}

// encodeBatch renders records as newline-terminated JSON objects.
func encodeBatch(records []model.SnapshotRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return nil, fmt.Errorf("encode snapshot record %q: %w", records[i].ID, err)
		}
	}
	return buf.Bytes(), nil
}
