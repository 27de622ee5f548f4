package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage("")
	ctx := context.Background()
	data := []byte("%PDF-1.4")

	key, err := s.Upload(ctx, "financial/2026-01.pdf", data, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "financial/2026-01.pdf", key)

	data[0] = 'X'
	obj, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4", string(obj.Data), "stored data is a copy")
	assert.Equal(t, "application/pdf", obj.ContentType)

	u, expiresAt, err := s.DownloadURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "memory://reports/financial%2F2026-01.pdf")
	assert.True(t, expiresAt.After(time.Now()))

	_, err = s.Upload(ctx, "", data, "application/pdf")
	assert.ErrorIs(t, err, ErrKeyRequired)
}
