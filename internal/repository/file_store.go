package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"building_scheduler/internal/models"
)

const recordExt = ".xml"

// FileStore keeps one XML file per schedule in a directory, named {key}.xml.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

// Ensure implementation of Store interface at compile time.
var _ Store = (*FileStore)(nil)

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+recordExt)
}

// ReadAll returns every *.xml record in key order. A missing directory holds no records.
func (s *FileStore) ReadAll(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &models.IOError{Op: "list", Key: s.dir, Err: err}
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(keys)

	out := make([]Record, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(s.path(key))
		if err != nil {
			out = append(out, Record{Key: key, Err: &models.IOError{Op: "read", Key: key, Err: err}})
			continue
		}
		out = append(out, Record{Key: key, Data: data})
	}
	return out, nil
}

func (s *FileStore) ReadOne(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, models.NotFound(models.KindSchedule, key)
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NotFound(models.KindSchedule, key)
		}
		return nil, &models.IOError{Op: "read", Key: key, Err: err}
	}
	return data, nil
}

// WriteOne replaces the record through a temp file and rename, so readers never see a partial write.
func (s *FileStore) WriteOne(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &models.IOError{Op: "write", Key: key, Err: fmt.Errorf("create dir %q: %w", s.dir, err)}
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return &models.IOError{Op: "write", Key: key, Err: err}
	}
	return nil
}

func (s *FileStore) DeleteOne(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return models.NotFound(models.KindSchedule, key)
	}
	if err := os.Remove(s.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.NotFound(models.KindSchedule, key)
		}
		return &models.IOError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *FileStore) Exists(ctx context.Context, key string) (bool, error) {
	if ValidateKey(key) != nil {
		return false, nil
	}
	_, err := os.Stat(s.path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &models.IOError{Op: "stat", Key: key, Err: err}
	}
}
