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

package xport

import (
	"fmt"
	"time"

	"mynewt.apache.org/blecast/bcxact/bledefs"
)

// Identifies one advertising instance handed out by a radio.
type AdvToken uint64

// Completion callback for StartAdvertising.  Radios invoke it exactly once
// per instance, from their own goroutine, with ADV_STATUS_SUCCESS or one of
// the failure codes below.
type AdvCallback func(status int)

type AdvSettings struct {
	Mode        bledefs.BleAdvMode
	TxPwr       bledefs.BleTxPwrLvl
	ConnMode    bledefs.BleAdvConnMode
	OwnAddrType bledefs.BleAddrType

	// Advertise from this static random address; nil uses the controller's
	// own address.
	OwnAddr *bledefs.BleAddr

	// 0 means no radio-side limit.
	Timeout time.Duration
}

func NewAdvSettings() AdvSettings {
	return AdvSettings{
		Mode:        bledefs.BLE_ADV_MODE_BALANCED,
		TxPwr:       bledefs.BLE_TX_PWR_MEDIUM,
		ConnMode:    bledefs.BLE_ADV_CONN_MODE_UND,
		OwnAddrType: bledefs.BLE_ADDR_TYPE_PUBLIC,
	}
}

func (s *AdvSettings) String() string {
	return fmt.Sprintf("mode=%s tx_pwr=%s conn=%s own_addr_type=%s",
		bledefs.BleAdvModeToString(s.Mode),
		bledefs.BleTxPwrLvlToString(s.TxPwr),
		bledefs.BleAdvConnModeToString(s.ConnMode),
		bledefs.BleAddrTypeToString(s.OwnAddrType))
}

// The radio driver as seen by the advertiser.
type Radio interface {
	Open() error
	Close() error

	// Whether the host has an adapter capable of advertising.
	Present() bool

	// Whether the adapter is powered.
	Enabled() bool

	// Begins advertising.  An error return means the request never reached
	// the radio and cb will not be called.
	StartAdvertising(settings AdvSettings, adv []byte, rsp []byte,
		cb AdvCallback) (AdvToken, error)

	StopAdvertising(tok AdvToken) error
}

// Advertising start status codes.
const (
	ADV_STATUS_SUCCESS              = 0
	ADV_FAILED_DATA_TOO_LARGE       = 1
	ADV_FAILED_TOO_MANY_ADVERTISERS = 2
	ADV_FAILED_ALREADY_STARTED      = 3
	ADV_FAILED_INTERNAL_ERROR       = 4
	ADV_FAILED_FEATURE_UNSUPPORTED  = 5
)

var AdvStatusStringMap = map[int]string{
	ADV_STATUS_SUCCESS:              "success",
	ADV_FAILED_DATA_TOO_LARGE:       "advertising data too large",
	ADV_FAILED_TOO_MANY_ADVERTISERS: "too many advertisers",
	ADV_FAILED_ALREADY_STARTED:      "advertising already started",
	ADV_FAILED_INTERNAL_ERROR:       "internal error",
	ADV_FAILED_FEATURE_UNSUPPORTED:  "feature unsupported",
}

func AdvStatusToString(status int) string {
	s, ok := AdvStatusStringMap[status]
	if !ok {
		return fmt.Sprintf("unknown error code: %d", status)
	}

	return s
}

// Permission names.
const (
	PERM_ADVERTISE = "advertise"
	PERM_CONNECT   = "connect"
	PERM_SCAN      = "scan"
)

type PermOracle interface {
	HasPermission(name string) bool
}

type permFunc func(name string) bool

func (f permFunc) HasPermission(name string) bool {
	return f(name)
}

// PermOracleFunc adapts a function to the PermOracle interface.
func PermOracleFunc(fn func(name string) bool) PermOracle {
	return permFunc(fn)
}

var AllowAll PermOracle = PermOracleFunc(func(string) bool { return true })

// MissingPerms lists the named permissions that the oracle does not grant.
func MissingPerms(po PermOracle, names ...string) []string {
	var missing []string
	for _, n := range names {
		if !po.HasPermission(n) {
			missing = append(missing, n)
		}
	}

	return missing
}
