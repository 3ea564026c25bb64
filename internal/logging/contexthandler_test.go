package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/myrjola/gumshoe/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_StampsAttrsFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	ctx := logging.WithAttrs(context.Background(),
		slog.String("case", "case-7f3a"))
	ctx = logging.WithAttrs(ctx, slog.Int64("seed", 42))

	logger.InfoContext(ctx, "question resolved")

	out := buf.String()
	require.Contains(t, out, "case=case-7f3a")
	require.Contains(t, out, "seed=42")
}

func TestContextHandler_PlainContextAddsNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "question resolved")

	require.NotContains(t, buf.String(), "case=")
}
