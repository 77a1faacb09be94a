package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Empty(t, cfg.JWTSecret)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "postgres with url", cfg: Config{DatabaseDriver: "postgres", DatabaseURL: "postgres://x", ServerPort: 8080}},
		{name: "postgres without url", cfg: Config{DatabaseDriver: "postgres", ServerPort: 8080}, wantErr: true},
		{name: "pq without url", cfg: Config{DatabaseDriver: "pq", ServerPort: 8080}, wantErr: true},
		{name: "sqlite without url", cfg: Config{DatabaseDriver: "sqlite", ServerPort: 8080}},
		{name: "unknown driver", cfg: Config{DatabaseDriver: "mysql", ServerPort: 8080}, wantErr: true},
		{name: "bad port", cfg: Config{DatabaseDriver: "sqlite", ServerPort: 0}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
