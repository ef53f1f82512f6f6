package reviews

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	defaultLockTTL  = 10 * time.Second
	defaultLockWait = 2 * time.Second
	lockPollEvery   = 25 * time.Millisecond
)

var errLockTimeout = errors.New("aggregate lock wait exceeded")

// aggregateLocker is the cross-instance lock used around rating
// recomputation. The redis client satisfies it.
type aggregateLocker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, name, token string) error
}

// serviceLock holds the per-service aggregate lock until released.
type serviceLock struct {
	locker aggregateLocker
	name   string
	token  string
}

func lockName(serviceID int64) string {
	return "rating:service:" + strconv.FormatInt(serviceID, 10)
}

// acquireServiceLock polls until the lock is owned or wait elapses.
func acquireServiceLock(ctx context.Context, locker aggregateLocker, serviceID int64, ttl, wait time.Duration) (*serviceLock, error) {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	name := lockName(serviceID)
	deadline := time.Now().Add(wait)
	for {
		token, ok, err := locker.AcquireLock(ctx, name, ttl)
		if err != nil {
			return nil, fmt.Errorf("acquire %s: %w", name, err)
		}
		if ok {
			return &serviceLock{locker: locker, name: name, token: token}, nil
		}
		if time.Now().After(deadline) {
			return nil, errLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}
}

// Release frees the lock only if this holder still owns it.
func (l *serviceLock) Release(ctx context.Context) error {
	if l == nil || l.token == "" {
		return nil
	}
	if err := l.locker.ReleaseLock(ctx, l.name, l.token); err != nil {
		return fmt.Errorf("release %s: %w", l.name, err)
	}
	l.token = ""
	return nil
}
