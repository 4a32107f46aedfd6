package canon_test

import (
	"errors"
	"testing"

	"github.com/canon-project/canon"
	"github.com/stretchr/testify/assert"
)

func TestCanonErrorWithMessage(t *testing.T) {
	newErr := canon.ErrCapacityExceeded.WithMessage("rank 9 > dimension 8")
	assert.Equal(
		t,
		"basis rank would exceed the space dimension: rank 9 > dimension 8",
		newErr.Error(),
		"error message is wrong")
	assert.ErrorIs(t, newErr, canon.ErrCapacityExceeded)
}

func TestCanonErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := canon.ErrCorruptContainer.Wrap(originalErr)
	expectedMessage := "corrupt CANON container: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, canon.ErrCorruptContainer, "sentinel not set as parent")
}
