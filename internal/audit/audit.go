package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ecommerce-project/backend/pkg/logger"
	"go.uber.org/zap"
)

// Account lifecycle events recorded in the journal.
const (
	EventRegistered      = "registered"
	EventActivated       = "activated"
	EventLogin           = "login"
	EventLogout          = "logout"
	EventPasswordChanged = "password_changed"
)

// Entry is one account event, stored as a JSON line.
type Entry struct {
	Event     string    `json:"event"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an append-only journal of account lifecycle events. Every write
// is fsynced so the trail survives a crash.
type Log struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

func NewLog(filePath string) (*Log, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Log{
		filePath: filePath,
		file:     file,
	}, nil
}

// Record appends an event to the journal.
func (l *Log) Record(event, userID, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Event:     event,
		UserID:    userID,
		Username:  username,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Audit: failed to marshal entry",
			zap.String("event", event),
			zap.Error(err),
		)
		return err
	}

	if _, err := l.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Audit: failed to write entry",
			zap.String("event", event),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	if err := l.file.Sync(); err != nil {
		logger.Log.Error("Audit: failed to sync to disk",
			zap.String("event", event),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// ReadAll returns every recorded event, oldest first.
func (l *Log) ReadAll() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.readAllUnsafe()
}

// Prune rewrites the journal keeping only entries newer than the cutoff.
func (l *Log) Prune(olderThan time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.readAllUnsafe()
	if err != nil {
		return err
	}

	var remaining []Entry
	for _, e := range entries {
		if e.Timestamp.After(olderThan) {
			remaining = append(remaining, e)
		}
	}

	if err := l.file.Close(); err != nil {
		return err
	}

	tempFile := l.filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	for _, e := range remaining {
		data, _ := json.Marshal(e)
		f.WriteString(string(data) + "\n")
	}

	f.Sync()
	f.Close()

	// Atomic swap, then reopen with the same flags.
	if err := os.Rename(tempFile, l.filePath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.file = newFile

	logger.Log.Info("Audit: pruned journal",
		zap.Int("before_count", len(entries)),
		zap.Int("remaining_count", len(remaining)),
	)

	return nil
}

func (l *Log) readAllUnsafe() ([]Entry, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
