package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"iglikes/pkg/records"
)

const (
	postsDirName      = "Posts"
	statisticsDirName = "Statistics"
)

// Manager owns the output tree of one account:
//
//	<output>/<account>/Posts/       one record per post
//	<output>/<account>/Statistics/  CSV and PDF reports
type Manager struct {
	account    string
	accountDir string

	// per-date sequence so same-day posts get distinct record files
	daySeq map[string]int
	mu     sync.Mutex
}

// AccountDir returns the directory holding account's output.
func AccountDir(outputDir, account string) string {
	return filepath.Join(outputDir, account)
}

// AccountExists reports whether account already has an output directory.
func AccountExists(outputDir, account string) bool {
	info, err := os.Stat(AccountDir(outputDir, account))
	return err == nil && info.IsDir()
}

// NewManager creates the account's Posts and Statistics directories.
func NewManager(outputDir, account string) (*Manager, error) {
	m := &Manager{
		account:    account,
		accountDir: AccountDir(outputDir, account),
		daySeq:     make(map[string]int),
	}

	for _, dir := range []string{m.PostsDir(), m.StatisticsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return m, nil
}

// Account returns the account this manager writes for.
func (m *Manager) Account() string {
	return m.account
}

// AccountDir returns the account's root output directory.
func (m *Manager) AccountDir() string {
	return m.accountDir
}

// PostsDir returns the directory holding post records.
func (m *Manager) PostsDir() string {
	return filepath.Join(m.accountDir, postsDirName)
}

// StatisticsDir returns the directory holding reports.
func (m *Manager) StatisticsDir() string {
	return filepath.Join(m.accountDir, statisticsDirName)
}

// StatisticsPath returns the path of a report file.
func (m *Manager) StatisticsPath(name string) string {
	return filepath.Join(m.StatisticsDir(), name)
}

// nextRecordPath reserves the next record file name for date.
func (m *Manager) nextRecordPath(rec *records.PostRecord) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := rec.Date()
	m.daySeq[day]++
	return filepath.Join(m.PostsDir(), records.FileName(m.account, rec.PostDate, m.daySeq[day]))
}

// SaveRecord writes rec to its record file and returns the path.
func (m *Manager) SaveRecord(rec *records.PostRecord) (string, error) {
	path := m.nextRecordPath(rec)
	err := WriteAtomic(path, func(w io.Writer) error {
		_, err := rec.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// RecordCount returns how many records were written in this run.
func (m *Manager) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.daySeq {
		n += c
	}
	return n
}

// WriteAtomic writes path through a temporary file and a rename so readers
// never observe a partial file.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	tempFile := path + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = write(out)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
