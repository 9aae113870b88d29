package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, KindNone},
		{fmt.Errorf("%w: user 1", ErrForbidden), KindForbidden},
		{fmt.Errorf("%w: booking 1", ErrNotFound), KindNotFound},
		{fmt.Errorf("%w: item unavailable", ErrValidation), KindValidation},
		{fmt.Errorf("update: %w", ErrConcurrentModification), KindConflict},
		{errors.New("disk full"), KindInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}
