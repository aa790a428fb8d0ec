package aggregator_test

import (
	"time"

	"github.com/rohmanhakim/csp-hasher/internal/metadata"
	"github.com/stretchr/testify/mock"
)

type metadataSinkMock struct {
	metadata.NoopSink
	mock.Mock
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.Called(packageName, action, cause, details, attrs)
}
