package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretAddDestErrorRateLimited(t *testing.T) {
	message, redirect := InterpretAddDestError(errors.New("Rate limited: try later"))
	assert.Equal(t, RateLimitedMessage, message)
	assert.False(t, redirect)
}

func TestInterpretAddDestErrorGeneric(t *testing.T) {
	message, redirect := InterpretAddDestError(errors.New("destination already exists"))
	assert.Equal(t, "Error: destination already exists", message)
	assert.False(t, redirect)
}

func TestInterpretAddDestErrorNil(t *testing.T) {
	message, redirect := InterpretAddDestError(nil)
	assert.Equal(t, "Error: Unknown", message)
	assert.False(t, redirect)
}

func TestInterpretAddDestErrorEmptyMessage(t *testing.T) {
	message, _ := InterpretAddDestError(errors.New("   "))
	assert.Equal(t, "Error: Unknown", message)
}
