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

package bledefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Maximum size of a legacy advertising or scan response payload.
const BLE_ADV_DATA_MAX_LEN = 31

// Maximum encoded size of a single AD structure (length byte excluded).
const BLE_AD_STRUCT_MAX_LEN = 255

const BleBaseUuidSuffix = "-0000-1000-8000-00805F9B34FB"

type BleAddrType int

const (
	BLE_ADDR_TYPE_PUBLIC BleAddrType = 0
	BLE_ADDR_TYPE_RANDOM             = 1
)

var BleAddrTypeStringMap = map[BleAddrType]string{
	BLE_ADDR_TYPE_PUBLIC: "public",
	BLE_ADDR_TYPE_RANDOM: "random",
}

func BleAddrTypeToString(addrType BleAddrType) string {
	s := BleAddrTypeStringMap[addrType]
	if s == "" {
		return "???"
	}

	return s
}

func BleAddrTypeFromString(s string) (BleAddrType, error) {
	for addrType, name := range BleAddrTypeStringMap {
		if s == name {
			return addrType, nil
		}
	}

	return BleAddrType(0), fmt.Errorf("Invalid BleAddrType string: %s", s)
}

func (a BleAddrType) MarshalJSON() ([]byte, error) {
	return json.Marshal(BleAddrTypeToString(a))
}

func (a *BleAddrType) UnmarshalJSON(data []byte) error {
	var err error

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*a, err = BleAddrTypeFromString(s)
	return err
}

// BleAddr holds a device address in display order (most significant octet
// first).
type BleAddr struct {
	Bytes [6]byte
}

// ParseBleAddr accepts six two-digit hex groups separated by ':' or '-'.
// Mixed separators are tolerated.
func ParseBleAddr(s string) (BleAddr, error) {
	ba := BleAddr{}

	toks := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == '-'
	})
	if len(toks) != 6 || len(s) != 17 {
		return ba, fmt.Errorf("invalid BLE addr string: %s", s)
	}

	for i, t := range toks {
		if len(t) != 2 {
			return ba, fmt.Errorf("invalid BLE addr string: %s", s)
		}
		u64, err := strconv.ParseUint(t, 16, 8)
		if err != nil {
			return ba, fmt.Errorf("invalid BLE addr string: %s", s)
		}
		ba.Bytes[i] = byte(u64)
	}

	return ba, nil
}

// String renders the canonical upper-case, colon separated form.
func (ba BleAddr) String() string {
	var buf bytes.Buffer
	buf.Grow(len(ba.Bytes) * 3)

	for i, b := range ba.Bytes {
		if i != 0 {
			buf.WriteString(":")
		}
		fmt.Fprintf(&buf, "%02X", b)
	}

	return buf.String()
}

// Reversed returns the address in HCI (little-endian) byte order.
func (ba BleAddr) Reversed() [6]byte {
	var r [6]byte
	for i, b := range ba.Bytes {
		r[5-i] = b
	}
	return r
}

// IsRandomStatic reports whether the two most significant bits are set, as
// required for a static random address.
func (ba BleAddr) IsRandomStatic() bool {
	return ba.Bytes[0]&0xc0 == 0xc0
}

func (ba BleAddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(ba.String())
}

func (ba *BleAddr) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	var err error
	*ba, err = ParseBleAddr(s)
	if err != nil {
		return err
	}

	return nil
}

type BleUuid16 uint16

func (bu16 BleUuid16) String() string {
	return fmt.Sprintf("0x%04x", uint16(bu16))
}

// Uuid128String expands the 16-bit UUID against the Bluetooth base UUID.
func (bu16 BleUuid16) Uuid128String() string {
	return fmt.Sprintf("0000%04X%s", uint16(bu16), BleBaseUuidSuffix)
}

// AD structure types from the Bluetooth Assigned Numbers.
type BleAdType uint8

const (
	BLE_AD_TYPE_FLAGS            BleAdType = 0x01
	BLE_AD_TYPE_UUID16_INCOMP              = 0x02
	BLE_AD_TYPE_UUID16_COMP                = 0x03
	BLE_AD_TYPE_UUID32_INCOMP              = 0x04
	BLE_AD_TYPE_UUID32_COMP                = 0x05
	BLE_AD_TYPE_UUID128_INCOMP             = 0x06
	BLE_AD_TYPE_UUID128_COMP               = 0x07
	BLE_AD_TYPE_NAME_SHORT                 = 0x08
	BLE_AD_TYPE_NAME_COMP                  = 0x09
	BLE_AD_TYPE_TX_PWR_LVL                 = 0x0a
	BLE_AD_TYPE_SVC_DATA_UUID16            = 0x16
	BLE_AD_TYPE_APPEARANCE                 = 0x19
	BLE_AD_TYPE_MFG_DATA                   = 0xff
)

var BleAdTypeStringMap = map[BleAdType]string{
	BLE_AD_TYPE_FLAGS:           "flags",
	BLE_AD_TYPE_UUID16_INCOMP:   "uuids16_incomplete",
	BLE_AD_TYPE_UUID16_COMP:     "uuids16",
	BLE_AD_TYPE_UUID32_INCOMP:   "uuids32_incomplete",
	BLE_AD_TYPE_UUID32_COMP:     "uuids32",
	BLE_AD_TYPE_UUID128_INCOMP:  "uuids128_incomplete",
	BLE_AD_TYPE_UUID128_COMP:    "uuids128",
	BLE_AD_TYPE_NAME_SHORT:      "name_short",
	BLE_AD_TYPE_NAME_COMP:       "name",
	BLE_AD_TYPE_TX_PWR_LVL:      "tx_pwr_lvl",
	BLE_AD_TYPE_SVC_DATA_UUID16: "svc_data_uuid16",
	BLE_AD_TYPE_APPEARANCE:      "appearance",
	BLE_AD_TYPE_MFG_DATA:        "mfg_data",
}

func BleAdTypeToString(t BleAdType) string {
	s := BleAdTypeStringMap[t]
	if s == "" {
		return fmt.Sprintf("0x%02x", uint8(t))
	}

	return s
}

// Flags AD bits.
const (
	BLE_ADV_F_DISC_LTD    = 0x01
	BLE_ADV_F_DISC_GEN    = 0x02
	BLE_ADV_F_BREDR_UNSUP = 0x04
	BLE_ADV_F_SIMUL_CTRLR = 0x08
	BLE_ADV_F_SIMUL_HOST  = 0x10
)

var bleAdvFlagNames = []struct {
	bit  uint8
	name string
}{
	{BLE_ADV_F_DISC_LTD, "le_limited_disc"},
	{BLE_ADV_F_DISC_GEN, "le_general_disc"},
	{BLE_ADV_F_BREDR_UNSUP, "bredr_unsupported"},
	{BLE_ADV_F_SIMUL_CTRLR, "simul_controller"},
	{BLE_ADV_F_SIMUL_HOST, "simul_host"},
}

// BleAdvFlagsString lists the names of the set bits, e.g.
// "le_general_disc|bredr_unsupported".
func BleAdvFlagsString(flags uint8) string {
	names := []string{}
	for _, f := range bleAdvFlagNames {
		if flags&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

type BleAdvConnMode int

const (
	BLE_ADV_CONN_MODE_NON BleAdvConnMode = iota
	BLE_ADV_CONN_MODE_UND
)

var BleAdvConnModeStringMap = map[BleAdvConnMode]string{
	BLE_ADV_CONN_MODE_NON: "non",
	BLE_ADV_CONN_MODE_UND: "und",
}

func BleAdvConnModeToString(connMode BleAdvConnMode) string {
	s := BleAdvConnModeStringMap[connMode]
	if s == "" {
		return "???"
	}

	return s
}

func BleAdvConnModeFromString(s string) (BleAdvConnMode, error) {
	for advConnMode, name := range BleAdvConnModeStringMap {
		if s == name {
			return advConnMode, nil
		}
	}

	return BleAdvConnMode(0),
		fmt.Errorf("Invalid BleAdvConnMode string: %s", s)
}

func (a BleAdvConnMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(BleAdvConnModeToString(a))
}

func (a *BleAdvConnMode) UnmarshalJSON(data []byte) error {
	var err error

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*a, err = BleAdvConnModeFromString(s)
	return err
}

// Advertising interval policy.
type BleAdvMode int

const (
	BLE_ADV_MODE_LOW_POWER BleAdvMode = iota
	BLE_ADV_MODE_BALANCED
	BLE_ADV_MODE_LOW_LATENCY
)

var BleAdvModeStringMap = map[BleAdvMode]string{
	BLE_ADV_MODE_LOW_POWER:   "low_power",
	BLE_ADV_MODE_BALANCED:    "balanced",
	BLE_ADV_MODE_LOW_LATENCY: "low_latency",
}

func BleAdvModeToString(mode BleAdvMode) string {
	s := BleAdvModeStringMap[mode]
	if s == "" {
		return "???"
	}

	return s
}

func BleAdvModeFromString(s string) (BleAdvMode, error) {
	for mode, name := range BleAdvModeStringMap {
		if s == name {
			return mode, nil
		}
	}

	return BleAdvMode(0), fmt.Errorf("Invalid BleAdvMode string: %s", s)
}

// Interval bounds in 0.625 ms units for each mode.
func (m BleAdvMode) Itvls() (uint16, uint16) {
	switch m {
	case BLE_ADV_MODE_LOW_LATENCY:
		return 0x00a0, 0x00a0 // 100 ms
	case BLE_ADV_MODE_LOW_POWER:
		return 0x0640, 0x0640 // 1 s
	default:
		return 0x0190, 0x0190 // 250 ms
	}
}

type BleTxPwrLvl int

const (
	BLE_TX_PWR_ULTRA_LOW BleTxPwrLvl = iota
	BLE_TX_PWR_LOW
	BLE_TX_PWR_MEDIUM
	BLE_TX_PWR_HIGH
)

var BleTxPwrLvlStringMap = map[BleTxPwrLvl]string{
	BLE_TX_PWR_ULTRA_LOW: "ultra_low",
	BLE_TX_PWR_LOW:       "low",
	BLE_TX_PWR_MEDIUM:    "medium",
	BLE_TX_PWR_HIGH:      "high",
}

func BleTxPwrLvlToString(lvl BleTxPwrLvl) string {
	s := BleTxPwrLvlStringMap[lvl]
	if s == "" {
		return "???"
	}

	return s
}
