package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// containerExt is the extension of the packed model container the API serves.
const containerExt = ".glb"

// scratchFile is one invocation's persisted payload. Names combine the
// invocation timestamp with a random suffix so concurrent invocations never
// collide without any locking.
type scratchFile struct {
	path string
}

func newScratchFile(dir string, now time.Time, data []byte) (*scratchFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	name := fmt.Sprintf("model_%d_%s%s", now.UnixNano(), uuid.NewString()[:8], containerExt)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write scratch file: %w", err)
	}
	return &scratchFile{path: path}, nil
}

func (s *scratchFile) Path() string {
	return s.path
}

// Remove deletes the scratch file. Removal failure is logged, never surfaced:
// a leaked temp file must not fail an otherwise finished invocation.
func (s *scratchFile) Remove(logger *zap.Logger) {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove scratch file", zap.String("path", s.path), zap.Error(err))
	}
}
