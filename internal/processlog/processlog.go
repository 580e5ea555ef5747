package processlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// LockName is the lock file created next to the processing log.
const LockName = ".kmzclean.lock"

// ErrLocked reports that another run holds the output directory.
var ErrLocked = errors.New("another kmzclean run is using the output directory")

// Outcome is the disposition written for a file.
type Outcome string

const (
	Success Outcome = "success"
	Failed  Outcome = "failed"
)

// Entry is one processing log line.
type Entry struct {
	Source string
	// Member names the nested .kmz a wrapper archive's entry refers to.
	Member  string
	Outcome Outcome
	Err     error
}

// Format renders e without a trailing newline. Entries for nested documents
// read "<archive>/<member>". Line breaks inside the error message are folded
// so every entry stays on a single line.
func Format(e Entry) string {
	name := filepath.Base(e.Source)
	if e.Member != "" {
		name += "/" + e.Member
	}
	if e.Outcome != Failed {
		return name + " - " + string(Success)
	}
	msg := "unknown error"
	if e.Err != nil {
		msg = strings.Join(strings.Fields(e.Err.Error()), " ")
	}
	return fmt.Sprintf("%s - %s: %s", name, Failed, msg)
}

// Log appends entries to the processing log while holding the run lock.
type Log struct {
	mu   sync.Mutex
	path string
	file *os.File
	lock *flock.Flock
}

// Open acquires the run lock in the log's directory and opens path for
// appending. The directory must already exist.
func Open(path string) (*Log, error) {
	lockPath := filepath.Join(filepath.Dir(path), LockName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, lockPath)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open processing log: %w", err)
	}
	return &Log{path: path, file: file, lock: lock}, nil
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append writes one entry.
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return errors.New("processing log closed")
	}
	if _, err := l.file.WriteString(Format(e) + "\n"); err != nil {
		return fmt.Errorf("append processing log: %w", err)
	}
	return nil
}

// Close flushes the log and releases the run lock. Safe to call twice.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	syncErr := l.file.Sync()
	closeErr := l.file.Close()
	l.file = nil
	unlockErr := l.lock.Unlock()
	return errors.Join(syncErr, closeErr, unlockErr)
}
