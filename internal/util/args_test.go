package util_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellatom/internal/util"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{old[0]}, args...)
	defer func() { os.Args = old }()
	fn()
}

func TestParseArgsDefaults(t *testing.T) {
	withArgs(t, nil, func() {
		opt, err := util.ParseArgs()
		require.NoError(t, err)
		assert.Equal(t, 5, opt.GridSize)
		assert.EqualValues(t, 1, opt.MaxValue)
		assert.Equal(t, 1, opt.Iterations)
		assert.False(t, opt.JIT)
	})
}

func TestParseArgsOverrides(t *testing.T) {
	withArgs(t, []string{"-j", "-o", "2", "-x", "10", "-i", "4", "-t"}, func() {
		opt, err := util.ParseArgs()
		require.NoError(t, err)
		assert.True(t, opt.JIT)
		assert.Equal(t, 2, opt.OptLevel)
		assert.Equal(t, 10, opt.GridSize)
		assert.Equal(t, 4, opt.Iterations)
		assert.True(t, opt.Timing)
	})
}

func TestParseArgsRejectsBadOptLevel(t *testing.T) {
	withArgs(t, []string{"-o", "9"}, func() {
		_, err := util.ParseArgs()
		assert.Error(t, err)
	})
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	withArgs(t, []string{"-bogus"}, func() {
		_, err := util.ParseArgs()
		assert.Error(t, err)
	})
}
