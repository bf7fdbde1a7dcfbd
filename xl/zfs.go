package xl

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Storage is the interface for writing Excel file parts (XML and media files).
// Implementations can write to ZIP archives or directory structures.
type Storage interface {
	WriteBlob(path string, blob []byte) error
}

// DirStorage writes Excel file parts to a directory structure on disk.
// This is useful for debugging as it allows inspection of generated XML files.
type DirStorage struct {
	Dir string // Root directory path
}

// ZipStorage writes Excel file parts to a ZIP archive, creating a standard .xlsx file.
type ZipStorage struct {
	z *zip.Writer
}

// NewDirStorage creates a new directory-based storage that writes files to the specified directory.
// The directory will be created if it doesn't exist.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{
		Dir: dir,
	}
}

// WriteBlob writes a file part to the directory structure.
// Creates any necessary parent directories automatically.
func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	fn := filepath.Join(ds.Dir, path)
	err := os.MkdirAll(filepath.Dir(fn), 0777)
	if err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	return errors.WithStack(os.WriteFile(fn, blob, 0666))
}

// NewZipStorage creates a new ZIP-based storage that writes to the given writer.
// The writer is typically a file opened for writing (e.g., os.Create("output.xlsx")).
func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out)}
}

// WriteBlob writes a file part to the ZIP archive.
// Each part becomes a file entry in the ZIP with the specified path.
func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	f, err := zs.z.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	_, err = f.Write(blob)
	return errors.WithStack(err)
}

// Close finalizes the ZIP archive. Must be called after all writes are complete.
// Failure to call Close will result in an invalid/corrupted Excel file.
func (zs *ZipStorage) Close() error {
	return errors.WithStack(zs.z.Close())
}

// MemStorage keeps the parts in memory, keyed by their path without the
// leading slash. It is used to inspect a package before committing it.
type MemStorage map[string][]byte

func (ms MemStorage) WriteBlob(path string, blob []byte) error {
	path = strings.TrimPrefix(path, "/")
	if _, exists := ms[path]; exists {
		return errors.Errorf("duplicate part %s", path)
	}
	ms[path] = append([]byte(nil), blob...)
	return nil
}

// Paths returns the stored part names in sorted order.
func (ms MemStorage) Paths() []string {
	paths := make([]string, 0, len(ms))
	for p := range ms {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// CopyTo writes every stored part to another storage in path order.
func (ms MemStorage) CopyTo(dst Storage) error {
	for _, p := range ms.Paths() {
		if err := dst.WriteBlob("/"+p, ms[p]); err != nil {
			return err
		}
	}
	return nil
}
