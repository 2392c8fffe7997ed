package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *TemplateStore {
	t.Helper()
	base := t.TempDir()
	store, err := NewTemplateStore(
		filepath.Join(base, "custom"),
		filepath.Join(base, "default"),
		zap.NewNop(),
	)
	require.NoError(t, err)
	return store
}

func TestTemplateStore_InstallCustom(t *testing.T) {
	store := newTestStore(t)

	path, err := store.InstallCustom("synthese_dossier.xlsx", []byte("workbook"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.CustomDir(), "synthese_dossier.xlsx"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("workbook"), content)
	assert.True(t, store.Exists(path))
}

func TestTemplateStore_InstallCustom_TraversalBlocked(t *testing.T) {
	store := newTestStore(t)

	path, err := store.InstallCustom("../../etc/passwd.xlsx", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.CustomDir(), "etcpasswd.xlsx"), path)

	_, err = store.InstallCustom("///", []byte("x"))
	assert.Error(t, err)
}

func TestTemplateStore_RemoveCustom(t *testing.T) {
	store := newTestStore(t)

	path, err := store.InstallCustom("recu_paiement.xlsx", []byte("workbook"))
	require.NoError(t, err)

	require.NoError(t, store.RemoveCustom("recu_paiement.xlsx"))
	assert.False(t, store.Exists(path))

	// removing an absent override is not an error
	assert.NoError(t, store.RemoveCustom("recu_paiement.xlsx"))
}

func TestTemplateStore_Exists(t *testing.T) {
	store := newTestStore(t)

	assert.False(t, store.Exists(filepath.Join(store.DefaultDir(), "absent.xlsx")))
	assert.False(t, store.Exists(store.DefaultDir()), "directories are not templates")
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean name", in: "convention_honoraires.xlsx", want: "convention_honoraires.xlsx"},
		{name: "traversal", in: "../secret.xlsx", want: "secret.xlsx"},
		{name: "separators", in: "a/b\\c.xlsx", want: "abc.xlsx"},
		{name: "special characters", in: "rapport (final)!.xlsx", want: "rapportfinal.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}
