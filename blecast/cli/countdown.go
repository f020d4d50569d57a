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

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/cheggaaa/pb.v1"
)

// countdown shows the time left in an advertising session as a progress bar.
type countdown struct {
	mtx   sync.Mutex
	out   io.Writer
	quiet bool

	bar   *pb.ProgressBar
	total time.Duration
}

func newCountdown(out io.Writer) *countdown {
	return &countdown{out: out}
}

func (c *countdown) Acquire(maxDuration time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.bar != nil {
		c.bar.Finish()
	}

	bar := pb.New64(int64(maxDuration / time.Second))
	bar.Output = c.out
	bar.NotPrint = c.quiet
	bar.ShowCounters = false
	bar.ShowSpeed = false
	bar.ShowTimeLeft = false
	bar.Prefix("Advertising ")
	bar.Postfix(fmt.Sprintf(" %s left", maxDuration))
	bar.Start()

	c.bar = bar
	c.total = maxDuration
}

func (c *countdown) Tick(remaining time.Duration) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.bar == nil {
		return
	}

	elapsed := c.total - remaining
	c.bar.Set64(int64(elapsed / time.Second))
	c.bar.Postfix(fmt.Sprintf(" %s left", remaining.Round(time.Second)))
}

func (c *countdown) Release() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.bar == nil {
		return
	}

	c.bar.Finish()
	c.bar = nil
}

func (c *countdown) elapsed() int64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.bar == nil {
		return -1
	}
	return c.bar.Get()
}
