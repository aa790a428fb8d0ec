package storage

import (
	"errors"
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/metadata"
	"github.com/rohmanhakim/csp-hasher/pkg/failure"
	"github.com/rohmanhakim/csp-hasher/pkg/fileutil"
	"github.com/rohmanhakim/csp-hasher/pkg/hashutil"
)

/*
Responsibilities
- Persist rendered reports
- Create missing parent directories

Output Characteristics
- Atomic replacement: readers see the old report or the new one, never a mix
- Overwrite-safe reruns
*/

type Sink interface {
	Write(path string, content []byte) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
) LocalSink {
	return LocalSink{
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(path string, content []byte) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(path, content)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactReport,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrFingerprint, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

func write(path string, content []byte) (WriteResult, failure.ClassifiedError) {
	if path == "" {
		return WriteResult{}, &StorageError{
			Message:   "output path is empty",
			Retryable: false,
			Cause:     ErrCauseEmptyPath,
		}
	}

	if err := fileutil.WriteFileAtomic(path, content, 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		var fileErr *fileutil.FileError
		if errors.As(err, &fileErr) {
			switch fileErr.Cause {
			case fileutil.ErrCausePathError:
				cause = ErrCausePathError
			case fileutil.ErrCauseNoSpace:
				cause = ErrCauseDiskFull
				retryable = true // disk full is retryable
			}
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      path,
		}
	}

	contentHash, err := hashutil.HashBytes(content, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      path,
		}
	}
	return NewWriteResult(path, contentHash, len(content)), nil
}
