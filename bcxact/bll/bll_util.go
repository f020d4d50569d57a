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

// Package bll implements the radio and scanner contracts on top of a local
// HCI controller.
package bll

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/JuulLabs-OSS/ble"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/scan"
)

// The subset of ble.Advertisement needed to build a capture.
type advReport interface {
	LocalName() string
	ManufacturerData() []byte
	Services() []ble.UUID
	RSSI() int
	Addr() ble.Addr
}

// Implemented by reports that carry the undecoded advertising payload.
type rawAdvReport interface {
	Data() []byte
}

func UuidFromBllUuid(bllUuid ble.UUID) (bledefs.BleUuid16, error) {
	if len(bllUuid) != 2 {
		return 0, fmt.Errorf("Not a 16-bit UUID: %s", bllUuid.String())
	}

	return bledefs.BleUuid16(binary.LittleEndian.Uint16(bllUuid)), nil
}

func AddrFromBll(a ble.Addr) (bledefs.BleAddr, error) {
	return bledefs.ParseBleAddr(strings.ToUpper(a.String()))
}

func addrMatches(a ble.Addr, target bledefs.BleAddr) bool {
	addr, err := AddrFromBll(a)
	return err == nil && addr == target
}

// CaptureFromAdv records a report's advertising data verbatim when the HCI
// stack exposes it.  Otherwise the data is rebuilt from the fields the stack
// has already parsed, which loses any field it does not surface.
func CaptureFromAdv(a advReport) (*scan.Capture, error) {
	addr, err := AddrFromBll(a.Addr())
	if err != nil {
		return nil, err
	}

	var data []byte
	if r, ok := a.(rawAdvReport); ok {
		data = append([]byte(nil), r.Data()...)
	}
	if len(data) == 0 {
		data, err = rebuildAdvData(a)
		if err != nil {
			return nil, err
		}
	}

	return &scan.Capture{
		Addr: addr,
		Rssi: int8(a.RSSI()),
		Data: data,
		Name: a.LocalName(),
		Time: time.Now(),
	}, nil
}

func rebuildAdvData(a advReport) ([]byte, error) {
	f := adfield.Fields{}

	for _, u := range a.Services() {
		u16, err := UuidFromBllUuid(u)
		if err != nil {
			continue
		}
		f.Uuids16 = append(f.Uuids16, u16)
		f.Uuids16IsComplete = true
	}

	name := a.LocalName()
	if name != "" {
		f.Name = &name
		f.NameIsComplete = true
	}

	if md := adfield.ParseMfgData(a.ManufacturerData()); md != nil {
		f.MfgData = md
	}

	return adfield.Encode(adfield.BuildFields(f))
}
