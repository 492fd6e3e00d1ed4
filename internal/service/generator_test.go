package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorCode_SixDigitRange(t *testing.T) {
	gen := NewGenerator()

	for i := 0; i < 200; i++ {
		code, err := gen.Code()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGeneratorSessionID_Unique(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.SessionID()
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate session id: %s", id)
		seen[id] = true
	}
}
