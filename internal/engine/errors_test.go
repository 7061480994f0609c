package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_Fatal(t *testing.T) {
	assert.True(t, ErrCodeDatasetUnavailable.Fatal())
	assert.True(t, ErrCodeKeywordMismatch.Fatal())
	assert.False(t, ErrCodeOutOfRangeTimestamp.Fatal())
	assert.False(t, ErrCodeEmptyDeviationSet.Fatal())
	assert.False(t, ErrCodeNegativeValue.Fatal())
	assert.False(t, ErrCodeNonFiniteValue.Fatal())
	assert.False(t, ErrCodeToleranceExceeded.Fatal())
}

func TestCompareError_Error(t *testing.T) {
	err := NewOutOfRangeError("FOPR", 30, 0, 20)
	assert.Equal(t, "OUT_OF_RANGE_TIMESTAMP: reference time 30 outside checking range [0, 20] (keyword=FOPR)", err.Error())

	cause := errors.New("no such file")
	err = NewDatasetUnavailableError("base.db", cause)
	assert.Equal(t, "DATASET_UNAVAILABLE: cannot load dataset base.db: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("compare: %w", NewEmptyDeviationError("WBHP:W1"))
	assert.True(t, HasCode(err, ErrCodeEmptyDeviationSet))
	assert.False(t, HasCode(err, ErrCodeNegativeValue))
	assert.False(t, IsFatal(err))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeEmptyDeviationSet))
}
