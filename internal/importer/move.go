package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// rename is swapped in tests to force the cross-device path.
var rename = os.Rename

// MoveFile moves src to dst, creating parent directories as needed.
// A plain rename is tried first. When src and dst are on different devices the
// file is copied to a temporary file beside dst, synced, checked against the
// source size, renamed into place and only then is src removed.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrMoveFailed, err)
	}

	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("%w: remove source: %v", ErrMoveFailed, err)
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open source: %v", ErrMoveFailed, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat source: %v", ErrMoveFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".sortarr-*")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", ErrMoveFailed, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, in)
	if err != nil {
		return fmt.Errorf("%w: copy: %v", ErrMoveFailed, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrMoveFailed, err)
	}
	if n != info.Size() {
		err = fmt.Errorf("%w: wrote %d of %d bytes", ErrSizeMismatch, n, info.Size())
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %v", ErrMoveFailed, err)
	}
	if err = os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: chmod: %v", ErrMoveFailed, err)
	}
	if err = os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("%w: rename temp: %v", ErrMoveFailed, err)
	}
	return nil
}
