package core

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out timestamp-derived ids of the form "{prefix}-{epochMillis}".
// Ids from one generator are strictly increasing: an id requested within an
// already used millisecond moves on to the next free one.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (g *IDGenerator) Next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixNano() / int64(time.Millisecond)
	if millis <= g.last {
		millis = g.last + 1
	}
	g.last = millis
	return prefix + "-" + strconv.FormatInt(millis, 10)
}
