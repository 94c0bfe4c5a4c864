package logger_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robalyx/squadpledge/internal/setup/telemetry/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRotatorKeepsNewestLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "main.log")
	rotator, err := logger.NewLogRotator(path, 3)
	require.NoError(t, err)

	for i := range 5 {
		_, err := fmt.Fprintf(rotator, "line %d\n", i)
		require.NoError(t, err)
	}

	// Below twice the capacity nothing is dropped
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)

	_, err = fmt.Fprint(rotator, "line 5\n")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line 3\nline 4\nline 5\n", string(data))

	// Writing continues into the rotated file
	_, err = fmt.Fprint(rotator, "line 6\n")
	require.NoError(t, err)
	require.NoError(t, rotator.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line 3\nline 4\nline 5\nline 6\n", string(data))

	_, err = rotator.Write([]byte("late\n"))
	require.ErrorIs(t, err, os.ErrClosed)
}

func TestRingBuffer(t *testing.T) {
	t.Parallel()

	rb := logger.NewRingBuffer(2)
	assert.Nil(t, rb.Lines())
}
