package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/sanction/service/dao/request"
	"github.com/viant/sanction/service/dao/request/storetest"
)

func TestService(t *testing.T) {
	storetest.Run(t, func(t *testing.T) request.Store {
		s, err := New(context.Background(), filepath.Join(t.TempDir(), "requests"))
		require.NoError(t, err)
		return s
	})
}

func TestServiceSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
