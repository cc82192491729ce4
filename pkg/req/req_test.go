package req

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Stake int64 `json:"stake"`
}

func TestDecode(t *testing.T) {
	p, err := Decode[payload](strings.NewReader(`{"stake": 100}`))
	require.NoError(t, err)
	require.Equal(t, int64(100), p.Stake)

	_, err = Decode[payload](strings.NewReader(``))
	require.ErrorIs(t, err, ErrEmptyBody)

	_, err = Decode[payload](strings.NewReader(`{"bet": 1}`))
	require.Error(t, err)
}
