package repositories

import (
	"escort-route-service/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `[
		{"id": " E1 ", "gender": "female", "lat": 12.93, "lon": 77.62, "service_time": 90},
		{"id": "E2", "gender": "M", "lat": 12.95, "lon": 77.60}
	]`)

	got, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Equal(t, []domain.Employee{
		{ID: "E1", Gender: domain.Female, Location: domain.Coordinates{Lat: 12.93, Lon: 77.62}, ServiceTime: 90},
		{ID: "E2", Gender: domain.Male, Location: domain.Coordinates{Lat: 12.95, Lon: 77.60}},
	}, got)
}

func TestLoadSeedFileErrors(t *testing.T) {
	cases := map[string]string{
		"bad json":   `{`,
		"empty id":   `[{"id": "", "gender": "F"}]`,
		"bad gender": `[{"id": "E1", "gender": "x"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, body))
			require.Error(t, err)
		})
	}

	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
