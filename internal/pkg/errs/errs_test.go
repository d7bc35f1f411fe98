//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"garage-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	sentinel := errs.New("slot already booked")
	cause := errors.New("row locked")

	t.Run("marked error matches sentinel and keeps cause", func(t *testing.T) {
		err := errs.Mark(cause, sentinel)

		assert.True(t, errs.Is(err, sentinel))
		assert.True(t, errs.Is(err, cause))
		assert.Contains(t, err.Error(), "row locked")
	})

	t.Run("nil error yields the marker itself", func(t *testing.T) {
		assert.Equal(t, sentinel, errs.Mark(nil, sentinel))
	})

	t.Run("IsAny matches any reference", func(t *testing.T) {
		other := errs.New("other")
		err := errs.Mark(cause, sentinel)

		assert.True(t, errs.IsAny(err, other, sentinel))
		assert.False(t, errs.IsAny(err, other))
	})
}

func TestWrap(t *testing.T) {
	assert.Nil(t, errs.Wrap(nil, "ignored"))

	err := errs.Wrap(errors.New("boom"), "failed to lock slot")
	assert.Equal(t, "failed to lock slot: boom", err.Error())
	assert.NotEmpty(t, errs.ExtractStackLines(err, 3))
}
