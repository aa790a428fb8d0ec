package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rohmanhakim/csp-hasher/pkg/failure"
)

// GetFileExtension extracts the file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	// Remove the leading dot
	return strings.TrimPrefix(ext, ".")
}

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	target := filepath.Join(targetPath...)
	if err := os.MkdirAll(target, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      target,
		}
	}
	return nil
}

// ReadFile reads the whole file at path. A missing file and a directory are
// reported with their own causes so callers can tell them apart from I/O failures.
func ReadFile(path string) ([]byte, failure.ClassifiedError) {
	info, err := os.Stat(path)
	if err != nil {
		cause := ErrCauseReadFailure
		if errors.Is(err, fs.ErrNotExist) {
			cause = ErrCauseNotFound
		}
		return nil, &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     cause,
			Path:      path,
		}
	}
	if info.IsDir() {
		return nil, &FileError{
			Message:   fmt.Sprintf("%s is a directory", path),
			Retryable: false,
			Cause:     ErrCauseIsDirectory,
			Path:      path,
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{
			Message:   err.Error(),
			Retryable: true,
			Cause:     ErrCauseReadFailure,
			Path:      path,
		}
	}
	return data, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) failure.ClassifiedError {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &FileError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &FileError{Message: err.Error(), Retryable: true, Cause: writeCause(err), Path: path}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &FileError{Message: err.Error(), Retryable: true, Cause: writeCause(err), Path: path}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return &FileError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &FileError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	return nil
}

func writeCause(err error) FileErrorCause {
	if errors.Is(err, syscall.ENOSPC) {
		return ErrCauseNoSpace
	}
	return ErrCauseWriteFailure
}
