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

// Package cfgcheck validates broadcast configuration values.
package cfgcheck

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

const (
	DFLT_TARGET_ADDR = "18:BC:5A:10:60:4D"
	DFLT_PAYLOAD_HEX = "02011A17FF0002317D89030000000F0295699D011000000003FE3C"
	DFLT_RSSI        = -50

	RSSI_MIN = -100
	RSSI_MAX = 20
)

var macRe = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)

func IsValidMac(s string) bool {
	return macRe.MatchString(s)
}

// IsValidPayload accepts an even number of hex digits encoding at most one
// advertising packet.
func IsValidPayload(s string) bool {
	if len(s)%2 != 0 || len(s) > bledefs.BLE_ADV_DATA_MAX_LEN*2 {
		return false
	}

	_, err := hex.DecodeString(s)
	return err == nil
}

func ParseRssi(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}

	return v, true
}

func IsValidRssiVal(rssi int) bool {
	return rssi >= RSSI_MIN && rssi <= RSSI_MAX
}

func IsValidRssi(s string) bool {
	v, ok := ParseRssi(s)
	return ok && IsValidRssiVal(v)
}

// FormatMac converts a valid address to upper case with colon separators.
func FormatMac(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", ":"))
}

func configError(text string) error {
	return bcxutil.NewPreconditionError(bcxutil.PRECOND_CONFIG, text)
}

// ValidateAll checks every field in a fixed order and reports the first
// problem found as a *bcxutil.PreconditionError carrying a human readable
// reason.
func ValidateAll(cfg adv.BroadcastConfig) error {
	mac := strings.TrimSpace(cfg.TargetAddr)
	data := strings.TrimSpace(cfg.PayloadHex)
	rssi := strings.TrimSpace(cfg.SignalLevel)

	if mac == "" {
		return configError("MAC address must not be empty")
	}
	if !IsValidMac(mac) {
		return configError("invalid MAC address format")
	}

	if data == "" {
		return configError("advertising data must not be empty")
	}
	if !IsValidPayload(data) {
		return configError(
			"invalid advertising data: even number of hex digits, at most 62")
	}

	if rssi == "" {
		return configError("signal level must not be empty")
	}
	if !IsValidRssi(rssi) {
		return configError("signal level must be between -100 and 20 dBm")
	}

	return nil
}

// A validated configuration in binary form.
type Parsed struct {
	Addr    bledefs.BleAddr
	Payload []byte
	Rssi    int
}

func Parse(cfg adv.BroadcastConfig) (Parsed, error) {
	if err := ValidateAll(cfg); err != nil {
		return Parsed{}, err
	}

	addr, err := bledefs.ParseBleAddr(FormatMac(cfg.TargetAddr))
	if err != nil {
		return Parsed{}, configError(err.Error())
	}

	payload, _ := hex.DecodeString(strings.TrimSpace(cfg.PayloadHex))
	rssi, _ := ParseRssi(cfg.SignalLevel)

	return Parsed{
		Addr:    addr,
		Payload: payload,
		Rssi:    rssi,
	}, nil
}

func DefaultConfig() adv.BroadcastConfig {
	return adv.BroadcastConfig{
		TargetAddr:  DFLT_TARGET_ADDR,
		PayloadHex:  DFLT_PAYLOAD_HEX,
		SignalLevel: strconv.Itoa(DFLT_RSSI),
	}
}
