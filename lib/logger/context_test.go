package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestAddToContextRoundTrip(t *testing.T) {
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := AddToContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}

func TestComponentTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	l := Component(slog.New(slog.NewTextHandler(&buf, nil)), "click")
	l.Info("resolved")
	require.Contains(t, buf.String(), "component=click")
}
