package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryRejectsShortInterval(t *testing.T) {
	s := New()
	_, err := s.Every("too-fast", 10*time.Millisecond, func() error { return nil })
	require.Error(t, err)
	assert.Equal(t, 0, s.Entries())
}

func TestRegistersJobs(t *testing.T) {
	s := New()
	_, err := s.Every("gc", time.Minute, func() error { return nil })
	require.NoError(t, err)
	_, err = s.Daily("cleanup", func() error { return errors.New("boom") })
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()
	s.Stop()
}

func TestWrapSwallowsErrors(t *testing.T) {
	called := false
	fn := wrap("job", func() error {
		called = true
		return errors.New("failed")
	})
	assert.NotPanics(t, fn)
	assert.True(t, called)
}
