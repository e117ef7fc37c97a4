package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestL_ChainsLevelMethods(t *testing.T) {
	// Level methods hang off *zerolog.Logger; the accessor must hand
	// out something addressable so chained calls work.
	require.NotNil(t, L())
	L().Debug().Str(FieldClientID, "c1").Msg("chained call")
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	require.Equal(t, L(), Ctx(context.Background()))
}

func TestCtx_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), logger)
	Ctx(ctx).Info().Msg("from context")

	require.Contains(t, buf.String(), "from context")
}

func TestWithClient_AttachesFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	ctx = WithClient(ctx, "c1", "alice")
	Ctx(ctx).Info().Msg("event")

	out := buf.String()
	require.Contains(t, out, `"client_id":"c1"`)
	require.Contains(t, out, `"username":"alice"`)
}

func TestWithClient_OmitsEmptyUsername(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	ctx = WithClient(ctx, "c2", "")
	Ctx(ctx).Info().Msg("event")

	out := buf.String()
	require.Contains(t, out, `"client_id":"c2"`)
	require.NotContains(t, out, "username")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	require.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
	require.Equal(t, zerolog.InfoLevel, parseLevel(""))
	require.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}
