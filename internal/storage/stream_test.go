package storage

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveAndStream(t *testing.T) {
	base := t.TempDir()
	store := NewLocalFileStorage(base, zap.NewNop())

	content := bytes.Repeat([]byte("rapport "), 20000)
	path := filepath.Join(base, "cases", "case-1", "synthese.pdf")
	require.NoError(t, store.SaveFile(path, content))

	stream, err := store.OpenStream(path)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, int64(len(content)), stream.Size())

	var out bytes.Buffer
	n, err := stream.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), n)
	assert.Equal(t, content, out.Bytes())
}

func TestLocalFileStorage_StreamRead(t *testing.T) {
	base := t.TempDir()
	store := NewLocalFileStorage(base, zap.NewNop())

	path := filepath.Join(base, "doc.bin")
	require.NoError(t, store.SaveFile(path, []byte("contenu")))

	stream, err := store.OpenStream(path)
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, []byte("contenu"), got)
}

func TestLocalFileStorage_ValidatePath(t *testing.T) {
	base := t.TempDir()
	store := NewLocalFileStorage(base, zap.NewNop())

	assert.NoError(t, store.ValidatePath(filepath.Join(base, "ok.pdf")))
	assert.Error(t, store.ValidatePath(filepath.Join(base, "..", "escape.pdf")))
	assert.Error(t, store.SaveFile("/etc/evil", []byte("x")))

	_, err := store.OpenStream(filepath.Join(base, "..", "escape.pdf"))
	assert.Error(t, err)
}
