package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, archive.Save("job-1/attendance-100042.csv", []byte("date,time,status\n")))

	file, err := archive.Open("job-1/attendance-100042.csv")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	require.NoError(t, archive.Remove("job-1/attendance-100042.csv"))
	_, err = archive.Open("job-1/attendance-100042.csv")
	require.Error(t, err)

	// removing twice is fine
	require.NoError(t, archive.Remove("job-1/attendance-100042.csv"))
}

func TestArchiveRejectsEscapingPaths(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	require.Error(t, archive.Save("../outside.csv", []byte("x")))
	require.Error(t, archive.Save("/etc/passwd", []byte("x")))
	_, err = archive.Open("../outside.csv")
	require.Error(t, err)
}

func TestArchiveSweep(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, archive.Save("job-1/attendance-100042.csv", []byte("old")))
	require.NoError(t, archive.Save("job-2/attendance-100043.csv", []byte("new")))

	// age the first export past the retention window
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(archive.Path("job-1/attendance-100042.csv"), stale, stale))

	removed, err := archive.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = archive.Open("job-1/attendance-100042.csv")
	require.Error(t, err)
	kept, err := archive.Open("job-2/attendance-100043.csv")
	require.NoError(t, err)
	require.NoError(t, kept.Close())
}
