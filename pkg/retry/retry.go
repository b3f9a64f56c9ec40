package retry

import (
	"time"

	"github.com/labstack/gommon/log"
)

const maxRetries = 5

var (
	retryStep     = time.Millisecond * 400
	maxRetryDelay = time.Second * 2
)

// delayBefore возвращает задержку перед повторной попыткой attempt (с нуля).
// Задержка растёт линейно с шагом retryStep: 0ms, 400ms, 800ms, 1200ms,
// 1600ms — и не превышает maxRetryDelay.
func delayBefore(attempt int) time.Duration {
	delay := retryStep * time.Duration(attempt)
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// Retry выполняет операцию с линейно растущей задержкой между попытками.
// Возвращает nil, если операция успешна, или последнюю ошибку, если все попытки завершились неудачей.
func Retry(operation func() error) error {
	retryCounter := 0
	for {
		err := operation()
		if err == nil {
			return nil
		}
		if retryCounter >= maxRetries {
			return err
		}
		log.Errorf("error during retry %d: %v", retryCounter, err)
		time.Sleep(delayBefore(retryCounter))
		retryCounter++
	}
}
