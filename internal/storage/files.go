package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileStore — файловое хранилище загруженных документов. Имя на диске
// получает префикс из unix-наносекунд, чтобы одинаковые исходные имена
// не затирали друг друга.
type FileStore struct {
	dir string
}

// NewFileStore создаёт каталог хранилища, если его ещё нет.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty upload dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the storage root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Save записывает содержимое r в хранилище и возвращает имя на диске,
// полный путь и размер в байтах. При ошибке записи частичный файл удаляется.
func (s *FileStore) Save(origName string, r io.Reader) (stored string, path string, size int64, err error) {
	base := filepath.Base(origName)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", "", 0, fmt.Errorf("invalid file name %q", origName)
	}
	stored = fmt.Sprintf("%d-%s", time.Now().UnixNano(), base)
	path = filepath.Join(s.dir, stored)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", "", 0, fmt.Errorf("create %s: %w", stored, err)
	}
	size, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", "", 0, fmt.Errorf("write %s: %w", stored, err)
	}
	return stored, path, size, nil
}

// Remove удаляет файл по имени на диске. Уже отсутствующий файл — не ошибка:
// удаление метаданных должно оставаться идемпотентным.
func (s *FileStore) Remove(stored string) error {
	if stored == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(stored)))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
