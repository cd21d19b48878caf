package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountCode(t *testing.T) {
	t.Run("accepts plain numeric code", func(t *testing.T) {
		code, err := NewAccountCode("1100")
		require.NoError(t, err)
		assert.Equal(t, "1100", code.String())
		assert.False(t, code.IsZero())
	})

	t.Run("accepts dot-separated segments", func(t *testing.T) {
		code, err := NewAccountCode("1100.01.3")
		require.NoError(t, err)
		assert.Equal(t, "1100.01.3", code.String())
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewAccountCode("")
		require.Error(t, err)
	})

	t.Run("rejects letters and symbols", func(t *testing.T) {
		for _, raw := range []string{"CASH", "11-00", "1100.", ".1100", "11 00"} {
			_, err := NewAccountCode(raw)
			assert.Error(t, err, raw)
		}
	})

	t.Run("rejects codes over 20 characters", func(t *testing.T) {
		_, err := NewAccountCode(strings.Repeat("1", 21))
		require.Error(t, err)
	})
}

func TestAccountCodeEquals(t *testing.T) {
	a, err := NewAccountCode("1100")
	require.NoError(t, err)
	b, err := NewAccountCode("1100")
	require.NoError(t, err)
	c, err := NewAccountCode("1200")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
