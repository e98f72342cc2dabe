package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nullsec/nkauth/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth", "users.json")
	r, err := NewRepository(path)
	require.NoError(t, err)
	return r, path
}

func TestNewRepository_RequiresPath(t *testing.T) {
	_, err := NewRepository("  ")
	require.Error(t, err)
}

func TestGet_MissingFileIsEmpty(t *testing.T) {
	r, _ := newRepo(t)

	v, err := r.Get(context.Background(), "neo")
	require.NoError(t, err)
	assert.Nil(t, v)

	m, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSetGetDelete(t *testing.T) {
	r, path := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "neo", []byte(`{"email":"neo@zion.io"}`)))
	require.NoError(t, r.Set(ctx, "trinity", []byte(`{"email":""}`)))

	v, err := r.Get(ctx, "neo")
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"neo@zion.io"}`, string(v))

	require.NoError(t, r.Delete(ctx, "neo"))
	require.NoError(t, r.Delete(ctx, "neo"), "delete must be idempotent")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"trinity":{"email":""}}`, string(b))
}

func TestSet_WritesIndentedObjectDocument(t *testing.T) {
	r, path := newRepo(t)
	require.NoError(t, r.Set(context.Background(), "neo", []byte(`{"a":1}`)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"neo\": {\n    \"a\": 1\n  }\n}", string(b))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestSet_RejectsInvalidJSON(t *testing.T) {
	r, _ := newRepo(t)
	err := r.Set(context.Background(), "neo", []byte(`{not json`))
	require.Error(t, err)
}

func TestCorruptDocument(t *testing.T) {
	r, path := newRepo(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{"neo": {`), 0o600))

	_, err := r.List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrCorrupt))

	_, err = r.Get(ctx, "neo")
	assert.True(t, errors.Is(err, repositories.ErrCorrupt))

	require.NoError(t, r.Clear(ctx))
	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestLegacyDocumentIsReadable(t *testing.T) {
	r, path := newRepo(t)

	legacy := map[string]any{
		"neo": map[string]any{
			"key":           "NKIA-PR01-AAAA-AAAA-AAAA",
			"tier":          "premium",
			"registered_at": "2025-01-10T14:03:22.123456",
			"valid":         true,
		},
	}
	b, err := json.MarshalIndent(legacy, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, b, 0o600))

	v, err := r.Get(context.Background(), "neo")
	require.NoError(t, err)
	assert.Contains(t, string(v), "NKIA-PR01-AAAA-AAAA-AAAA")
}

func TestEmptyAndNullDocuments(t *testing.T) {
	for _, content := range []string{"", "  \n", "null"} {
		r, path := newRepo(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		m, err := r.List(context.Background())
		require.NoError(t, err, "content %q", content)
		assert.Empty(t, m)

		require.NoError(t, r.Set(context.Background(), "k", []byte(`1`)))
	}
}

func TestUnreadableDocumentIsNotCorrupt(t *testing.T) {
	r, path := newRepo(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(path, 0o700))

	_, err := r.List(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, repositories.ErrCorrupt))
}
