package binary

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ReceiptFileName is written to the install directory after a successful install.
const ReceiptFileName = ".binwrap.json"

// Receipt records what was installed and when.
type Receipt struct {
	Version     int       `json:"version"` // Schema version for future evolution
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
	Entries     int       `json:"entries"`
}

func newReceipt(sourceURL, name string, entries int) *Receipt {
	return &Receipt{
		Version:     1,
		ID:          uuid.New().String(),
		URL:         redactURL(sourceURL),
		Name:        name,
		InstalledAt: time.Now().UTC(),
		Entries:     entries,
	}
}

// ReadReceipt loads the receipt from installDir. A missing receipt is
// reported with an error satisfying os.IsNotExist.
func ReadReceipt(installDir string) (*Receipt, error) {
	data, err := os.ReadFile(filepath.Join(installDir, ReceiptFileName))
	if err != nil {
		return nil, err
	}

	var receipt Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("parse receipt: %w", err)
	}

	return &receipt, nil
}

// writeReceipt saves the receipt atomically via a temp file and rename.
func writeReceipt(installDir string, receipt *Receipt) error {
	data, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}

	path := filepath.Join(installDir, ReceiptFileName)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename receipt: %w", err)
	}

	return nil
}

// redactURL hides any password embedded in the source URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
