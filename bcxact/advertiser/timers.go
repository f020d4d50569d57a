/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package advertiser

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// The auto-stop timer and housekeeping tick of one session.  Both are always
// armed and cancelled together.
type sessionTimers struct {
	gen      uint64
	started  time.Time
	autoStop *time.Timer
	stopCh   chan struct{}
}

func (c *Controller) armTimers(gen uint64) {
	c.cancelTimers()

	t := &sessionTimers{
		gen:     gen,
		started: time.Now(),
		stopCh:  make(chan struct{}),
	}

	t.autoStop = time.AfterFunc(c.cfg.MaxDuration, func() {
		c.tq.Enqueue(c.guard(func() error {
			return c.onExpire(gen)
		}))
	})

	go c.tick(t)

	c.timers = t
}

func (c *Controller) cancelTimers() {
	t := c.timers
	if t == nil {
		return
	}
	c.timers = nil

	t.autoStop.Stop()
	close(t.stopCh)
}

// Housekeeping loop.  Exits when its session is cancelled or superseded.
func (c *Controller) tick(t *sessionTimers) {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if t.gen != c.curGen() {
				return
			}

			remaining := c.cfg.MaxDuration - time.Since(t.started)
			if remaining < 0 {
				remaining = 0
			}
			log.Debugf("advertiser: gen=%d active, %s remaining",
				t.gen, remaining.Round(time.Second))

			if c.fg != nil {
				c.fg.Tick(remaining)
			}

		case <-t.stopCh:
			return
		}
	}
}
