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

// Package scan looks for advertisements from one target device.
package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joaojeronimo/go-crc16"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

const DFLT_TIMEOUT = 10 * time.Second

type Cfg struct {
	// Only advertisements from this address are captured.
	TargetAddr bledefs.BleAddr

	// Give up after this long; 0 waits until the context is cancelled.
	Timeout time.Duration
}

func NewCfg(addr bledefs.BleAddr) Cfg {
	return Cfg{
		TargetAddr: addr,
		Timeout:    DFLT_TIMEOUT,
	}
}

// One received advertisement.
type Capture struct {
	Addr bledefs.BleAddr
	Rssi int8

	// Advertising data in AD structure form.
	Data []byte

	Name string
	Time time.Time
}

func (c *Capture) String() string {
	return fmt.Sprintf("addr=%s rssi=%d name=%q data=%s",
		c.Addr.String(), c.Rssi, c.Name, bcxutil.HexString(c.Data))
}

type Scanner interface {
	// Blocks until the target is seen, the timeout expires
	// (*bcxutil.ScanTmoError), or ctx is done.
	Scan(ctx context.Context, cfg Cfg) (*Capture, error)
}

// ScanCtx derives the context a scanner should run under.
func ScanCtx(ctx context.Context, cfg Cfg) (context.Context, context.CancelFunc) {
	if cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, cfg.Timeout)
}

// Dedup remembers the CRC of each payload seen per address.  Scanners that
// receive duplicate reports use it to log each distinct payload once.
type Dedup struct {
	mtx  sync.Mutex
	seen map[bledefs.BleAddr]uint16
}

func NewDedup() *Dedup {
	return &Dedup{
		seen: map[bledefs.BleAddr]uint16{},
	}
}

// Seen records the payload and reports whether it is identical to the last
// one from the same address.
func (d *Dedup) Seen(addr bledefs.BleAddr, data []byte) bool {
	crc := crc16.Crc16(data)

	d.mtx.Lock()
	defer d.mtx.Unlock()

	prev, ok := d.seen[addr]
	d.seen[addr] = crc

	return ok && prev == crc
}

func (d *Dedup) Forget(addr bledefs.BleAddr) bool {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if _, ok := d.seen[addr]; !ok {
		return false
	}
	delete(d.seen, addr)

	return true
}

func (d *Dedup) ForgetAll() {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	d.seen = map[bledefs.BleAddr]uint16{}
}
