package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"casino_rounds/internal/model"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultSportsConfig(t *testing.T) {
	cfg := DefaultGameConfig()

	matches := cfg.SportsMatches()
	require.Len(t, matches, 3)
	odds, ok := matches[0].Odds(model.PickDraw)
	require.True(t, ok)
	require.Equal(t, 3.2, odds)

	// У баскетбола ничьей нет
	_, ok = matches[1].Odds(model.PickDraw)
	require.False(t, ok)

	table := cfg.Table(model.GameSports)
	require.True(t, table.WaitForBets)
	require.Equal(t, 1, table.SlotsPerPlayer)
}

func TestSportsMatchesFromYAML(t *testing.T) {
	path := writeYAML(t, `
games:
  sports:
    countdown: 2s
    matches:
      - id: final
        sport: hockey
        team1: Ak Bars
        team2: CSKA
        odds1: 2.0
        odds2: 1.7
        odds_draw: 4.1
`)

	cfg, err := NewGameConfigFromYAML(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, cfg.Table(model.GameSports).Countdown)

	matches := cfg.SportsMatches()
	require.Len(t, matches, 1)
	require.Equal(t, "final", matches[0].ID)
	require.Equal(t, 4.1, matches[0].OddsDraw)

	// Копия: изменения не попадают в настройки
	matches[0].Odds1 = 100
	require.Equal(t, 2.0, cfg.SportsMatches()[0].Odds1)
}

func TestSportsMatchesValidation(t *testing.T) {
	cases := map[string]string{
		"odds below one": `
games:
  sports:
    matches:
      - {id: m1, odds1: 0.9, odds2: 2}
`,
		"duplicate id": `
games:
  sports:
    matches:
      - {id: m1, odds1: 2, odds2: 2}
      - {id: m1, odds1: 3, odds2: 3}
`,
		"empty id": `
games:
  sports:
    matches:
      - {odds1: 2, odds2: 2}
`,
	}
	for name, body := range cases {
		_, err := NewGameConfigFromYAML(writeYAML(t, body))
		require.Error(t, err, name)
	}
}

func TestMissingConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := NewGameConfigFromYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.SportsMatches(), 3)
}
