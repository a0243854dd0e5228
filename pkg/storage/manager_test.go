package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"iglikes/pkg/records"
)

func record(date string, likers ...string) *records.PostRecord {
	d, _ := time.Parse(records.DateLayout, date)
	return &records.PostRecord{
		URL:       "https://www.instagram.com/p/x/",
		PostDate:  d,
		MediaType: records.MediaPhoto,
		Likers:    likers,
	}
}

func TestNewManagerCreatesLayout(t *testing.T) {
	tempDir := t.TempDir()

	assert.False(t, AccountExists(tempDir, "alice"))

	m, err := NewManager(tempDir, "alice")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tempDir, "alice"), m.AccountDir())
	assert.DirExists(t, filepath.Join(tempDir, "alice", "Posts"))
	assert.DirExists(t, filepath.Join(tempDir, "alice", "Statistics"))
	assert.True(t, AccountExists(tempDir, "alice"))
	assert.Equal(t, filepath.Join(tempDir, "alice", "Statistics", "r.csv"), m.StatisticsPath("r.csv"))
}

func TestSaveRecord(t *testing.T) {
	m, err := NewManager(t.TempDir(), "alice")
	require.NoError(t, err)

	path, err := m.SaveRecord(record("2024-01-01", "bob", "carol"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.PostsDir(), "alice_2024-01-01.txt"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	parsed, err := records.Parse(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, parsed.Likers)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestSaveRecordSameDay(t *testing.T) {
	m, err := NewManager(t.TempDir(), "alice")
	require.NoError(t, err)

	var names []string
	for _, date := range []string{"2024-01-05", "2024-01-05", "2024-01-01", "2024-01-05"} {
		path, err := m.SaveRecord(record(date))
		require.NoError(t, err)
		names = append(names, filepath.Base(path))
	}

	assert.Equal(t, []string{
		"alice_2024-01-05.txt",
		"alice_2024-01-05_2.txt",
		"alice_2024-01-01.txt",
		"alice_2024-01-05_3.txt",
	}, names)
	assert.Equal(t, 4, m.RecordCount())
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("encoder failed")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoder failed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteAtomicOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	err := WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
