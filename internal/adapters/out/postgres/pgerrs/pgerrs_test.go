package pgerrs_test

import (
	"errors"
	"fmt"
	"testing"

	"sharedcab/internal/adapters/out/postgres/pgerrs"
	"sharedcab/internal/pkg/errs"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})

	assert.True(t, pgerrs.IsUniqueViolation(wrapped))
	assert.False(t, pgerrs.IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, pgerrs.IsUniqueViolation(errors.New("boom")))
	assert.False(t, pgerrs.IsUniqueViolation(nil))
}

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("select for update: %w", &pq.Error{Code: "40P01"}), true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pgerrs.IsSerializationFailure(tt.err))
		})
	}
}

func TestLockConflict(t *testing.T) {
	t.Run("serialization failure becomes retryable", func(t *testing.T) {
		cause := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}

		err := pgerrs.LockConflict("group:42", cause)

		require.ErrorIs(t, err, errs.ErrLockNotAcquired)
		var lockErr *errs.LockNotAcquiredError
		require.ErrorAs(t, err, &lockErr)
		assert.Equal(t, "group:42", lockErr.Key)
		assert.Equal(t, cause, lockErr.Cause)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		other := errors.New("connection reset")

		assert.Same(t, other, pgerrs.LockConflict("group:42", other))
		assert.NoError(t, pgerrs.LockConflict("group:42", nil))
	})
}
