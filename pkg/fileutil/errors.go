package fileutil

import (
	"fmt"

	"github.com/rohmanhakim/csp-hasher/pkg/failure"
)

type FileErrorCause string

const (
	ErrCausePathError    FileErrorCause = "path error"
	ErrCauseNotFound     FileErrorCause = "file not found"
	ErrCauseIsDirectory  FileErrorCause = "is a directory"
	ErrCauseReadFailure  FileErrorCause = "read failed"
	ErrCauseWriteFailure FileErrorCause = "write failed"
	ErrCauseNoSpace      FileErrorCause = "no space left on device"
)

type FileError struct {
	Message   string
	Retryable bool
	Cause     FileErrorCause
	Path      string
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("file error: %s", e.Cause)
	}
	return fmt.Sprintf("file error: %s: %s", e.Cause, e.Path)
}

func (e *FileError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
