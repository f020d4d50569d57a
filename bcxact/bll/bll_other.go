//go:build !linux
// +build !linux

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

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/scan"
	"mynewt.apache.org/blecast/bcxact/xport"
)

type XportCfg struct {
	DevIdx int
}

func NewXportCfg() XportCfg {
	return XportCfg{}
}

// Raw HCI sockets are Linux only.  Elsewhere the radio reports itself absent
// so that the advertiser refuses with EVENT_NOT_SUPPORTED.
type BllRadio struct {
	cfg XportCfg
}

func NewBllRadio(cfg XportCfg) *BllRadio {
	return &BllRadio{cfg: cfg}
}

func (r *BllRadio) Open() error {
	return bcxutil.NewXportError("HCI transport requires Linux")
}

func (r *BllRadio) Close() error  { return nil }
func (r *BllRadio) Present() bool { return false }
func (r *BllRadio) Enabled() bool { return false }

func (r *BllRadio) StartAdvertising(settings xport.AdvSettings,
	adv []byte, rsp []byte, cb xport.AdvCallback) (xport.AdvToken, error) {

	return 0, bcxutil.NewXportError("HCI transport requires Linux")
}

func (r *BllRadio) StopAdvertising(tok xport.AdvToken) error {
	return nil
}

type BllScanner struct {
	radio *BllRadio
}

func NewBllScanner(radio *BllRadio) *BllScanner {
	return &BllScanner{radio: radio}
}

func (s *BllScanner) Scan(ctx context.Context, cfg scan.Cfg) (*scan.Capture, error) {
	return nil, bcxutil.NewXportError("HCI transport requires Linux")
}

var RootPerms = xport.AllowAll
