package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/apparel-storefront/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(&config.Config{Upload: config.UploadConfig{
		MaxSize:           64,
		AllowedExtensions: []string{"png", ".JPG"},
		LocalPath:         t.TempDir(),
		PublicBaseURL:     "/uploads/",
	}}, logger)
}

func TestSaveAndDelete(t *testing.T) {
	svc := newTestService(t)

	file, err := svc.save(bytes.NewReader(pngHeader), "tee.png", "png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, int64(len(pngHeader)), file.Size)
	assert.Equal(t, "/uploads/"+file.Filename, file.URL)

	_, err = os.Stat(filepath.Join(svc.Dir(), file.Filename))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(file.Filename))
	assert.ErrorIs(t, svc.Delete(file.Filename), ErrFileNotFound)
}

func TestSaveRejects(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.save(bytes.NewReader([]byte("<html>not an image</html>")), "x.png", "png")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	big := append(append([]byte{}, pngHeader...), make([]byte, 100)...)
	_, err = svc.save(bytes.NewReader(big), "big.png", "png")
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(svc.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteRejectsTraversal(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"", "../etc/passwd", "a/b.png", ".env"} {
		assert.ErrorIs(t, svc.Delete(name), ErrInvalidFilename, name)
	}
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "5.0 MB", FormatFileSize(5*1024*1024))
}
