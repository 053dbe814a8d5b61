package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew performs some sanity checks around log initialization.
func TestNew(t *testing.T) {
	devLogger, err := New(Config{Developer: true})
	require.NoError(t, err)
	assert.Equal(t, "debug", devLogger.Level().String())
	assert.NotNil(t, devLogger.Logger)

	infoLogger, err := New(Config{Level: 3})
	require.NoError(t, err)
	assert.Equal(t, "info", infoLogger.Level().String())

	_, err = New(Config{Level: 9})
	assert.ErrorContains(t, err, "invalid")
}
