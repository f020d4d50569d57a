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
	"encoding/json"
	"testing"
)

func TestParseBleAddr(t *testing.T) {
	tests := []struct {
		in    string
		out   string
		valid bool
	}{
		{"18:BC:5A:10:60:4D", "18:BC:5A:10:60:4D", true},
		{"18-bc-5a-10-60-4d", "18:BC:5A:10:60:4D", true},
		{"18:bc-5a:10-60:4d", "18:BC:5A:10:60:4D", true},
		{"18BC5A10604D", "", false},
		{"18:BC:5A:10:60", "", false},
		{"18:BC:5A:10:60:4G", "", false},
		{"18:BC:5A:10:60:4D:00", "", false},
		{"1:BC:5A:10:60:4DD", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		addr, err := ParseBleAddr(test.in)
		if test.valid {
			if err != nil {
				t.Errorf("ParseBleAddr(%q) failed: %v", test.in, err)
				continue
			}
			if addr.String() != test.out {
				t.Errorf("ParseBleAddr(%q) = %s, want %s",
					test.in, addr.String(), test.out)
			}
		} else if err == nil {
			t.Errorf("ParseBleAddr(%q) succeeded, want error", test.in)
		}
	}
}

func TestBleAddrReversed(t *testing.T) {
	addr, err := ParseBleAddr("C1:02:03:04:05:06")
	if err != nil {
		t.Fatal(err)
	}

	r := addr.Reversed()
	want := [6]byte{0x06, 0x05, 0x04, 0x03, 0x02, 0xc1}
	if r != want {
		t.Errorf("Reversed() = % x, want % x", r, want)
	}
	if !addr.IsRandomStatic() {
		t.Errorf("expected %s to be a static random address", addr.String())
	}
}

func TestBleAddrJSON(t *testing.T) {
	addr, _ := ParseBleAddr("18:bc:5a:10:60:4d")

	b, err := json.Marshal(addr)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"18:BC:5A:10:60:4D"` {
		t.Errorf("unexpected JSON: %s", b)
	}

	var back BleAddr
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != addr {
		t.Errorf("JSON round trip: got %s, want %s", back.String(), addr.String())
	}
}

func TestUuid16(t *testing.T) {
	u := BleUuid16(0xfe3c)
	if u.String() != "0xfe3c" {
		t.Errorf("String() = %s", u.String())
	}
	if got := u.Uuid128String(); got != "0000FE3C-0000-1000-8000-00805F9B34FB" {
		t.Errorf("Uuid128String() = %s", got)
	}
}

func TestBleAdvFlagsString(t *testing.T) {
	if s := BleAdvFlagsString(0x06); s != "le_general_disc|bredr_unsupported" {
		t.Errorf("BleAdvFlagsString(0x06) = %s", s)
	}
	if s := BleAdvFlagsString(0); s != "none" {
		t.Errorf("BleAdvFlagsString(0) = %s", s)
	}
}

func TestEnumStrings(t *testing.T) {
	if BleAdTypeToString(BLE_AD_TYPE_MFG_DATA) != "mfg_data" {
		t.Errorf("unexpected name for mfg data type")
	}
	if BleAdTypeToString(0x3d) != "0x3d" {
		t.Errorf("unknown AD types should render as hex")
	}

	m, err := BleAdvModeFromString("low_latency")
	if err != nil || m != BLE_ADV_MODE_LOW_LATENCY {
		t.Errorf("BleAdvModeFromString: %v, %v", m, err)
	}
	if _, err := BleAdvModeFromString("turbo"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
	if BleTxPwrLvlToString(BleTxPwrLvl(9)) != "???" {
		t.Errorf("unknown tx power level should render as ???")
	}
}
