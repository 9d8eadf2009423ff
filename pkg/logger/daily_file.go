package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// dailyFile writes to <dir>/<YYYY-MM-DD>.log and switches to a new file
// when the UTC date changes. Writes after Close are discarded.
type dailyFile struct {
	mu     sync.Mutex
	dir    string
	now    func() time.Time
	name   string
	file   *os.File
	closed bool
}

func openDailyFile(dir string, now func() time.Time) (*dailyFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	d := &dailyFile{dir: dir, now: now}
	if err := d.open(LogFileName(now())); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return len(p), nil
	}
	if name := LogFileName(d.now()); name != d.name {
		if err := d.open(name); err != nil {
			return 0, err
		}
	}
	return d.file.Write(p)
}

// open switches to name, keeping the current file if name cannot be opened.
func (d *dailyFile) open(name string) error {
	f, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if d.file != nil {
		d.file.Close()
	}
	d.file = f
	d.name = name
	return nil
}

// Path returns the file currently written to.
func (d *dailyFile) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return filepath.Join(d.dir, d.name)
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}
