package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpIsOrdered(t *testing.T) {
	ms, err := Up()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(ms), 2)

	assert.Equal(t, "000001_init", ms[0].Version)
	assert.Contains(t, ms[0].SQL, "CREATE TABLE IF NOT EXISTS transactions")
	for i := 1; i < len(ms); i++ {
		assert.Less(t, ms[i-1].Version, ms[i].Version)
	}
}
