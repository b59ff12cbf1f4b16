package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
)

// FileAccessor keeps records as a JSON array in a single file.
// Writes go to a temporary sibling file which then replaces the target.
type FileAccessor struct {
	mu   sync.Mutex
	path string
}

// NewFileAccessor returns an accessor for the file at path
func NewFileAccessor(path string) (*FileAccessor, error) {
	if path == "" {
		return nil, errors.New("data file path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data file path %s: %w", path, err)
	}
	return &FileAccessor{path: abs}, nil
}

// Identify returns the absolute path of the data file
func (a *FileAccessor) Identify() string {
	return a.path
}

func (a *FileAccessor) ReadRecords(ctx context.Context, out interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Logger(ctx).WithField("resource", a.path).Debug("data file does not exist yet")
			return nil
		}
		return fmt.Errorf("%w %s: %w", structs.ErrResourceRead, a.path, err)
	}

	// an empty file is what a crash between create and first write leaves behind
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w %s: %w", structs.ErrResourceRead, a.path, err)
	}
	return nil
}

func (a *FileAccessor) WriteRecords(_ context.Context, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w %s: %w", structs.ErrResourceWrite, a.path, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.replace(append(data, '\n')); err != nil {
		return fmt.Errorf("%w %s: %w", structs.ErrResourceWrite, a.path, err)
	}
	return nil
}

func (a *FileAccessor) replace(data []byte) error {
	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(a.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, a.path)
}
