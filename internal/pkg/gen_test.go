package pkg

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNewSessionID(t *testing.T) {
	first, err := GenerateNewSessionID()
	require.NoError(t, err)

	second, err := GenerateNewSessionID()
	require.NoError(t, err)

	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}

func TestGenerateGameID(t *testing.T) {
	id, err := GenerateGameID()
	require.NoError(t, err)

	n, err := strconv.Atoi(id)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 99999999)
}
