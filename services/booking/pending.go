// File: services/booking/pending.go
package booking

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"amanthos/models"
)

// FileLedger is the file-backed ledger of bookings awaiting payment. The
// whole collection is read, appended to, and rewritten on each append. An
// external reminder job consumes and mutates the same file; the single-writer
// assumption is documented, not enforced.
type FileLedger struct {
	path string
	mu   sync.Mutex
}

func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Append adds a record to the ledger, rewriting the whole file.
func (l *FileLedger) Append(rec models.PendingBooking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.load()
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("pending ledger: marshal: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("pending ledger: write %s: %w", l.path, err)
	}
	return nil
}

// Load returns all ledger records. A missing file is an empty ledger.
func (l *FileLedger) Load() ([]models.PendingBooking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *FileLedger) load() ([]models.PendingBooking, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.PendingBooking{}, nil
		}
		return nil, fmt.Errorf("pending ledger: read %s: %w", l.path, err)
	}
	var records []models.PendingBooking
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("pending ledger: parse %s: %w", l.path, err)
	}
	return records, nil
}
