package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayBefore_GrowsLinearlyAndIsCapped(t *testing.T) {
	// Первая повторная попытка происходит без задержки
	assert.Equal(t, time.Duration(0), delayBefore(0))
	assert.Equal(t, 400*time.Millisecond, delayBefore(1))
	assert.Equal(t, 800*time.Millisecond, delayBefore(2))
	assert.Equal(t, 1200*time.Millisecond, delayBefore(3))
	assert.Equal(t, 1600*time.Millisecond, delayBefore(4))

	// За пределами расписания задержка упирается в потолок
	assert.Equal(t, maxRetryDelay, delayBefore(100))
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Retry(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("временная ошибка")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_ReturnsLastErrorAfterAllAttempts(t *testing.T) {
	step := retryStep
	retryStep = time.Millisecond
	t.Cleanup(func() { retryStep = step })

	lastErr := errors.New("постоянная ошибка")
	attempts := 0
	err := Retry(func() error {
		attempts++
		return lastErr
	})
	assert.ErrorIs(t, err, lastErr)
	// Первая попытка плюс maxRetries повторных
	assert.Equal(t, maxRetries+1, attempts)
}
