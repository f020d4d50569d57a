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

package cfgcheck

import (
	"strings"
	"testing"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
)

func TestIsValidMac(t *testing.T) {
	tests := []struct {
		mac   string
		valid bool
	}{
		{"18:BC:5A:10:60:4D", true},
		{"18-bc-5a-10-60-4d", true},
		{"18BC5A10604D", false},
		{"18:BC:5A:10:60", false},
		{"18:BC:5A:10:60:4Z", false},
		{" 18:BC:5A:10:60:4D", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsValidMac(test.mac); got != test.valid {
			t.Errorf("IsValidMac(%q) = %v, want %v", test.mac, got, test.valid)
		}
	}
}

func TestIsValidPayload(t *testing.T) {
	tests := []struct {
		data  string
		valid bool
	}{
		{"02011A17FF00", true},
		{"02011A17FF0", false},
		{"02011a17ff00", true},
		{"GG", false},
		{strings.Repeat("AB", 31), true},
		{strings.Repeat("AB", 32), false},
		{DFLT_PAYLOAD_HEX, true},
	}

	for _, test := range tests {
		if got := IsValidPayload(test.data); got != test.valid {
			t.Errorf("IsValidPayload(%q) = %v, want %v",
				test.data, got, test.valid)
		}
	}
}

func TestIsValidRssi(t *testing.T) {
	tests := []struct {
		rssi  string
		valid bool
	}{
		{"-50", true},
		{"-100", true},
		{"20", true},
		{"25", false},
		{"-150", false},
		{"-101", false},
		{"abc", false},
		{"", false},
	}

	for _, test := range tests {
		if got := IsValidRssi(test.rssi); got != test.valid {
			t.Errorf("IsValidRssi(%q) = %v, want %v", test.rssi, got, test.valid)
		}
	}
}

func TestValidateAllOrder(t *testing.T) {
	tests := []struct {
		cfg    adv.BroadcastConfig
		reason string
	}{
		{adv.BroadcastConfig{}, "MAC address must not be empty"},
		{adv.BroadcastConfig{TargetAddr: "18BC5A10604D"},
			"invalid MAC address format"},
		{adv.BroadcastConfig{TargetAddr: DFLT_TARGET_ADDR},
			"advertising data must not be empty"},
		{adv.BroadcastConfig{TargetAddr: DFLT_TARGET_ADDR, PayloadHex: "ABC"},
			"invalid advertising data: even number of hex digits, at most 62"},
		{adv.BroadcastConfig{TargetAddr: DFLT_TARGET_ADDR, PayloadHex: "020106"},
			"signal level must not be empty"},
		{adv.BroadcastConfig{TargetAddr: DFLT_TARGET_ADDR, PayloadHex: "020106",
			SignalLevel: "25"},
			"signal level must be between -100 and 20 dBm"},
	}

	for i, test := range tests {
		err := ValidateAll(test.cfg)
		if err == nil {
			t.Errorf("case %d: expected failure", i)
			continue
		}

		perr := bcxutil.ToPrecondition(err)
		if perr == nil || perr.Reason != bcxutil.PRECOND_CONFIG {
			t.Errorf("case %d: unexpected error type %T", i, err)
		}
		if err.Error() != test.reason {
			t.Errorf("case %d: reason %q, want %q", i, err.Error(), test.reason)
		}
	}

	if err := ValidateAll(DefaultConfig()); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}

func TestParse(t *testing.T) {
	p, err := Parse(adv.BroadcastConfig{
		TargetAddr:  "18-bc-5a-10-60-4d",
		PayloadHex:  " 020106 ",
		SignalLevel: "-42",
	})
	if err != nil {
		t.Fatal(err)
	}

	if p.Addr.String() != "18:BC:5A:10:60:4D" {
		t.Errorf("Addr = %s", p.Addr.String())
	}
	if len(p.Payload) != 3 || p.Rssi != -42 {
		t.Errorf("unexpected parse result: %+v", p)
	}
}

func TestFormatMac(t *testing.T) {
	if got := FormatMac("18-bc-5a-10-60-4d"); got != "18:BC:5A:10:60:4D" {
		t.Errorf("FormatMac = %s", got)
	}
}
