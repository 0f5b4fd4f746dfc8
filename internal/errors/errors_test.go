package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityAndFatality(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantType  ErrorType
		wantFatal bool
	}{
		{
			name:      "config error is fatal",
			err:       ConfigError("no index store configured"),
			wantType:  ErrorTypeConfig,
			wantFatal: true,
		},
		{
			name:      "indexing error is not fatal",
			err:       IndexingError(fmt.Errorf("unexpected EOF"), "Sources/App/main.swift"),
			wantType:  ErrorTypeIndexing,
			wantFatal: false,
		},
		{
			name:      "graph error is not fatal",
			err:       GraphErrorf("dangling reference %d", 42),
			wantType:  ErrorTypeGraph,
			wantFatal: false,
		},
		{
			name:      "filter error is not fatal",
			err:       FilterError(fmt.Errorf("exec: git: not found"), "branch diff unavailable"),
			wantType:  ErrorTypeFilter,
			wantFatal: false,
		},
		{
			name:      "internal error is fatal",
			err:       InternalError("pass ordering violated"),
			wantType:  ErrorTypeInternal,
			wantFatal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantFatal, IsFatal(tt.err))
			assert.True(t, IsType(tt.err, tt.wantType))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, SeverityHigh, "ignored"))
}

func TestHintSurvivesWrapping(t *testing.T) {
	base := ConfigError("index store path does not exist").
		WithHint("pass --index-store-path pointing at a JSON unit directory or SQLite index")
	wrapped := fmt.Errorf("opening stores: %w", base)

	assert.True(t, IsFatal(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeConfig))
	assert.Equal(t, base.Hint, HintOf(wrapped))
	assert.Empty(t, HintOf(fmt.Errorf("plain")))
}

func TestIsMatchesByType(t *testing.T) {
	err := FilterError(fmt.Errorf("boom"), "diff filter")
	assert.True(t, stderrors.Is(err, &Error{Type: ErrorTypeFilter}))
	assert.False(t, stderrors.Is(err, &Error{Type: ErrorTypeConfig}))
}

func TestDetailedString(t *testing.T) {
	err := IndexingError(fmt.Errorf("bad json"), "a.json").WithHint("regenerate the index store")
	s := err.DetailedString()

	require.Contains(t, s, "[HIGH] [INDEXING]")
	assert.Contains(t, s, "Caused by: bad json")
	assert.Contains(t, s, "Hint: regenerate the index store")
	assert.Contains(t, s, "file: a.json")
}
