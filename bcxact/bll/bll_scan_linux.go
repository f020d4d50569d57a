//go:build linux
// +build linux

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

package bll

import (
	"context"
	"sync"

	"github.com/JuulLabs-OSS/ble"
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/scan"
)

// BllScanner listens on the radio's HCI device.  The radio must be open and
// not advertising.
type BllScanner struct {
	radio *BllRadio
	dedup *scan.Dedup
}

func NewBllScanner(radio *BllRadio) *BllScanner {
	return &BllScanner{
		radio: radio,
		dedup: scan.NewDedup(),
	}
}

func (s *BllScanner) Scan(ctx context.Context, cfg scan.Cfg) (*scan.Capture, error) {
	d := s.radio.Device()
	if d == nil {
		return nil, bcxutil.NewXportError("HCI device not open")
	}

	ctx, cancel := scan.ScanCtx(ctx, cfg)
	defer cancel()

	var mtx sync.Mutex
	var capture *scan.Capture

	onAdv := func(a ble.Advertisement) {
		if !addrMatches(a.Addr(), cfg.TargetAddr) {
			return
		}

		c, err := CaptureFromAdv(a)
		if err != nil {
			log.Debugf("bll: ignoring report from %s: %s",
				a.Addr().String(), err.Error())
			return
		}

		if !s.dedup.Seen(c.Addr, c.Data) {
			log.Debugf("bll: captured %s", c.String())
		}

		mtx.Lock()
		if capture == nil {
			capture = c
		}
		mtx.Unlock()

		cancel()
	}

	log.Debugf("bll: scanning for %s", cfg.TargetAddr.String())
	err := d.Scan(ctx, true, onAdv)

	mtx.Lock()
	defer mtx.Unlock()

	if capture != nil {
		return capture, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, bcxutil.FmtScanTmoError("%s not seen within %s",
			cfg.TargetAddr.String(), cfg.Timeout)
	}
	if err != nil && err != context.Canceled {
		return nil, bcxutil.FmtXportError("scan failed: %s", err.Error())
	}

	return nil, ctx.Err()
}
