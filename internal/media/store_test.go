package media

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "payment")
	return NewStore(dir, zap.NewNop()), dir
}

func TestStore_WritesBytesVerbatim(t *testing.T) {
	s, dir := newTestStore(t)

	name, err := s.Store(context.Background(), Upload{Filename: "proof.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, "_proof.png"))
	got, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, got)
}

func TestStore_UniqueNames(t *testing.T) {
	s, _ := newTestStore(t)
	up := Upload{Filename: "proof.png", ContentType: "image/png", Data: pngHeader}

	a, err := s.Store(context.Background(), up)
	require.NoError(t, err)
	b, err := s.Store(context.Background(), up)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStore_StripsDirectoriesFromName(t *testing.T) {
	s, dir := newTestStore(t)

	name, err := s.Store(context.Background(), Upload{Filename: "../../etc/x.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, "_x.png"))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
}

func TestStore_RejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name string
		up   Upload
		kind domain.Kind
	}{
		{"empty", Upload{Filename: "a.png", ContentType: "image/png"}, domain.KindInvalidInput},
		{"too large", Upload{Filename: "a.png", ContentType: "image/png", Data: make([]byte, MaxFileSize+1)}, domain.KindFileTooLarge},
		{"gif", Upload{Filename: "a.gif", ContentType: "image/gif", Data: []byte("GIF89a")}, domain.KindUnsupportedFileType},
		{"pdf", Upload{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}, domain.KindUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := newTestStore(t)

			_, err := s.Store(context.Background(), tt.up)

			assert.True(t, domain.IsKind(err, tt.kind), "got %v", err)
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr), "directory must not be created")
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Upload{Filename: "a.png", ContentType: "image/png", Data: pngHeader}))
	assert.True(t, domain.IsKind(Validate(Upload{Filename: "a.png"}), domain.KindInvalidInput))
	assert.True(t, domain.IsKind(Validate(Upload{Filename: "a.txt", Data: []byte("hello")}), domain.KindUnsupportedFileType))

	s, dir := newTestStore(t)
	assert.True(t, domain.IsKind(s.Validate(Upload{Filename: "a.png", Data: make([]byte, MaxFileSize+1)}), domain.KindFileTooLarge))
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_SniffsWhenTypeMissing(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Store(context.Background(), Upload{Filename: "a.png", Data: pngHeader})
	assert.NoError(t, err)

	_, err = s.Store(context.Background(), Upload{Filename: "a.txt", Data: []byte("hello")})
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedFileType))
}

func TestStore_AcceptsJPEGWithParams(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Store(context.Background(), Upload{Filename: "a.jpg", ContentType: "IMAGE/JPEG; q=1", Data: []byte{0xff, 0xd8, 0xff}})
	assert.NoError(t, err)
}

func TestStore_DirectoryCreateFailed(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	s := NewStore(filepath.Join(blocker, "sub"), zap.NewNop())

	_, err := s.Store(context.Background(), Upload{Filename: "a.png", ContentType: "image/png", Data: pngHeader})

	assert.True(t, domain.IsKind(err, domain.KindDirectoryCreateFailed))
}

func TestRetrieve(t *testing.T) {
	s, _ := newTestStore(t)
	name, err := s.Store(context.Background(), Upload{Filename: "a.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	rc, size, contentType, err := s.Retrieve(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pngHeader, body))
	assert.Equal(t, int64(len(pngHeader)), size)
	assert.Equal(t, "image/png", contentType)
}

func TestRetrieve_Missing(t *testing.T) {
	s, _ := newTestStore(t)

	_, _, _, err := s.Retrieve(context.Background(), "nope.png")

	assert.True(t, domain.IsKind(err, domain.KindFileMissing))
}

func TestDelete(t *testing.T) {
	s, dir := newTestStore(t)
	name, err := s.Store(context.Background(), Upload{Filename: "a.png", ContentType: "image/png", Data: pngHeader})
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), name))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	err = s.Delete(context.Background(), name)
	assert.True(t, domain.IsKind(err, domain.KindFileMissing))
}

func TestResolve_RejectsTraversal(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Delete(context.Background(), "../secret")

	assert.True(t, domain.IsKind(err, domain.KindInvalidInput))
}

func TestPath(t *testing.T) {
	s := NewStore("uploads/payment", zap.NewNop())

	assert.Equal(t, "uploads/payment/x.png", s.Path("x.png"))
}
