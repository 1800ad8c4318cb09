package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchiveRoundTrip(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	content := "%PDF-1.4 fake statement"

	info, err := archive.Save(ctx, "nacion", "2026-01", "resumen-enero.pdf", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "resumen-enero.pdf", info.Name)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, "nacion", info.Provider)
	assert.Equal(t, "2026-01", info.StatementMonth)

	r, got, err := archive.Open(ctx, "nacion", "2026-01", info.ID)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, info.ID, got.ID)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestLocalArchiveList(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = archive.Save(ctx, "nacion", "2026-01", "resumen.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = archive.Save(ctx, "nacion", "2026-01", "resumen.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	_, err = archive.Save(ctx, "mercadopago", "2026-01", "resumen.pdf", strings.NewReader("c"))
	require.NoError(t, err)

	files, err := archive.List(ctx, "nacion", "2026-01")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = archive.List(ctx, "nacion", "2025-12")
	require.NoError(t, err)
	assert.Empty(t, files)
}
