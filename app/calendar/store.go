package calendar

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the capability set the scheduling logic needs from
// persistence. Append-only: bookings are never updated or deleted.
type Store interface {
	Load(ctx context.Context) ([]Appointment, error)
	Append(ctx context.Context, appt Appointment) error
}

var _ Store = (*FileStore)(nil)

// FileStore keeps appointments as one JSON record per line. A missing
// file reads as an empty calendar; any other I/O error is returned so
// callers can tell "unavailable" from "empty".
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create calendar directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	appointments := make([]Appointment, 0)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var appt Appointment
		if err = json.Unmarshal([]byte(line), &appt); err != nil {
			return nil, fmt.Errorf("failed to parse appointment record: %w", err)
		}

		appointments = append(appointments, appt)
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading calendar file: %w", err)
	}

	return appointments, nil
}

func (s *FileStore) Append(_ context.Context, appt Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment: %w", err)
	}

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	if _, err = file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write appointment: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync calendar file: %w", err)
	}

	return nil
}
