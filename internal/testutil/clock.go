package testutil

import (
	"sync"
	"time"
)

// Clock 테스트에서 시간을 직접 제어하기 위한 가짜 시계입니다.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock start 시각에 멈춰 있는 시계를 생성합니다.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now 현재 시계의 시각을 반환합니다. contract.Clock 자리에 c.Now를 전달합니다.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance 시계를 d만큼 진행시킵니다.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
