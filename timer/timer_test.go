package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/macropad/timer"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time       { return c.now }
func (c *stepClock) Wait(d time.Duration) { c.now = c.now.Add(d) }

func TestTimerExpired(t *testing.T) {
	c := &stepClock{now: time.Unix(100, 0)}
	tm := timer.NewOn(c, 50*time.Millisecond)

	assert.False(t, tm.Expired())
	c.Wait(49 * time.Millisecond)
	assert.False(t, tm.Expired())
	assert.Equal(t, 49*time.Millisecond, tm.Elapsed())
	c.Wait(time.Millisecond)
	assert.True(t, tm.Expired())
}

func TestSystemWaitNonPositive(t *testing.T) {
	start := time.Now()
	timer.System{}.Wait(-time.Second)
	timer.System{}.Wait(0)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
