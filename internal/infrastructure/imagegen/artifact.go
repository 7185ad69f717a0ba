package imagegen

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArtifactStore writes generated images under the content directory.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore ensures the content directory exists.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// SaveBase64PNG decodes a base64 payload and writes it as a PNG file,
// returning the file path.
func (s *ArtifactStore) SaveBase64PNG(b64 string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}

	name := fmt.Sprintf("ai_image_%s_%s.png",
		time.Now().Format("20060102_150405"),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return path, nil
}
