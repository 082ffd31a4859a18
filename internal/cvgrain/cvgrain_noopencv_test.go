//go:build !opencv

package cvgrain

import (
	"testing"

	"semgrain/internal/grain"

	"github.com/stretchr/testify/require"
)

func TestUnavailableWithoutOpenCV(t *testing.T) {
	require.False(t, Available())
	a, err := NewAnalyzer(grain.DefaultParams())
	require.Nil(t, a)
	require.ErrorIs(t, err, ErrUnavailable)
}
