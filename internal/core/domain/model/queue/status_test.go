package queue_test

import (
	"testing"

	"matching/internal/core/domain/model/queue"
	"matching/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "SEARCHING", queue.Searching.String())
	assert.Equal(t, "COMPLETED", queue.Completed.String())
	assert.Equal(t, "EXPIRED", queue.Expired.String())
	assert.Equal(t, "UNKNOWN", queue.Unknown.String())
	assert.Equal(t, "UNKNOWN", queue.Status(42).String())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []queue.Status{queue.Searching, queue.Completed, queue.Expired} {
		parsed, err := queue.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := queue.ParseStatus("searching")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       queue.Status
		transition func(queue.Status) (queue.Status, error)
		want       queue.Status
		wantErr    bool
	}{
		{name: "searching completes", from: queue.Searching, transition: queue.Status.Complete, want: queue.Completed},
		{name: "searching expires", from: queue.Searching, transition: queue.Status.Expire, want: queue.Expired},
		{name: "completed cannot expire", from: queue.Completed, transition: queue.Status.Expire, wantErr: true},
		{name: "expired cannot complete", from: queue.Expired, transition: queue.Status.Complete, wantErr: true},
		{name: "completed cannot complete again", from: queue.Completed, transition: queue.Status.Complete, wantErr: true},
		{name: "unknown cannot move", from: queue.Unknown, transition: queue.Status.Complete, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.transition(tt.from)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, queue.Searching.IsTerminal())
	assert.True(t, queue.Completed.IsTerminal())
	assert.True(t, queue.Expired.IsTerminal())
}
