package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b := New[int](Config{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute, HalfOpenRequests: 1}, nil)
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	}
	called := false
	_, err := b.Execute(func() (int, error) {
		called = true
		return 1, nil
	})
	assert.False(t, called, "open breaker must not call fn")
	assert.True(t, IsOpen(err))
}

func TestBreaker_PassesResults(t *testing.T) {
	b := New[string](DefaultConfig("ok"), nil)

	v, err := b.Execute(func() (string, error) { return "fine", nil })
	require.NoError(t, err)
	assert.Equal(t, "fine", v)
	assert.False(t, IsOpen(errors.New("other")))
}
