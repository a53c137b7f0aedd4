package logging_test

import (
	"testing"

	"github.com/jrsteele09/go-library-checkin/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logging.Setup("debug", "PROD")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	logging.Setup("nonsense", "DEV")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
