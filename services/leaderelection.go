package services

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/l3montree-dev/policyguard/shared"
)

const leaderElectionLockKey = "leader_election"

// lockLeaderElector holds a session advisory lock while it is the leader.
// The lock is dropped by postgres if the leader dies, so a follower takes over on its next attempt.
type lockLeaderElector struct {
	locker   shared.Locker
	isLeader atomic.Bool // this variable gets updated by a daemon goroutine. Usage of atomic is required.
	release  func()
	interval func() time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewLockLeaderElector(locker shared.Locker) *lockLeaderElector {
	return newLockLeaderElector(locker, func() time.Duration {
		return time.Duration(randomNumberBetween(60, 359)) * time.Second
	})
}

func newLockLeaderElector(locker shared.Locker, interval func() time.Duration) *lockLeaderElector {
	e := &lockLeaderElector{
		locker:   locker,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	// start the daemon
	go e.daemon()
	return e
}

func randomNumberBetween(min, max int) int {
	return rand.Intn(max-min) + min // #nosec
}

func (e *lockLeaderElector) daemon() {
	defer close(e.done)
	for {
		if !e.isLeader.Load() {
			e.tryBecomeLeader()
		}

		select {
		case <-e.stop:
			if e.release != nil {
				e.release()
			}
			e.isLeader.Store(false)
			return
		case <-time.After(e.interval()):
		}
	}
}

func (e *lockLeaderElector) tryBecomeLeader() {
	release, err := e.locker.Lock(context.Background(), leaderElectionLockKey, time.Second)
	if err != nil {
		if !errors.Is(err, shared.ErrFailedToObtainLock) {
			slog.Error("could not check if leader", "err", err)
		}
		return
	}
	e.release = release
	e.isLeader.Store(true)
	slog.Info("became leader")
}

func (e *lockLeaderElector) IsLeader() bool {
	return e.isLeader.Load()
}

// Stop gives up the leadership and waits for the daemon to exit.
func (e *lockLeaderElector) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
	})
	<-e.done
}
