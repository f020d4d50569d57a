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

package config

import (
	"testing"

	"mynewt.apache.org/blecast/bcxact/bll"
	"mynewt.apache.org/blecast/bcxact/bluez"
)

func TestParseKvString(t *testing.T) {
	pairs, err := ParseKvString("mac=18:BC:5A:10:60:4D, rssi=-60 data=02")
	if err != nil {
		t.Fatalf("ParseKvString: %v", err)
	}

	want := [][2]string{
		{"mac", "18:BC:5A:10:60:4D"},
		{"rssi", "-60"},
		{"data", "02"},
	}
	if len(pairs) != len(want) {
		t.Fatalf("have=%v want=%v", pairs, want)
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("pair %d: have=%v want=%v", i, pairs[i], want[i])
		}
	}

	// Empty values are allowed; they clear a setting.
	if _, err := ParseKvString("company="); err != nil {
		t.Errorf("unexpected error for empty value: %v", err)
	}

	for _, s := range []string{"mac", "=x", "a=1,b"} {
		if _, err := ParseKvString(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestParseRadioString(t *testing.T) {
	tests := []struct {
		s    string
		want RadioConfig
	}{
		{"", RadioConfig{Type: RADIO_TYPE_HCI, Adapter: "hci0"}},
		{"type=hci,hci=1", RadioConfig{Type: RADIO_TYPE_HCI, HciIdx: 1, Adapter: "hci0"}},
		{"type=bluez,adapter=hci2", RadioConfig{Type: RADIO_TYPE_BLUEZ, Adapter: "hci2"}},
	}

	for _, test := range tests {
		rc, err := ParseRadioString(test.s)
		if err != nil {
			t.Errorf("ParseRadioString(%q): %v", test.s, err)
			continue
		}
		if rc != test.want {
			t.Errorf("ParseRadioString(%q): have=%+v want=%+v",
				test.s, rc, test.want)
		}
	}

	for _, s := range []string{"type=serial", "hci=x", "hci=-1", "adapter=",
		"speed=9600"} {

		if _, err := ParseRadioString(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}

	rc, _ := ParseRadioString("type=bluez,adapter=hci1")
	if rc.String() != "type=bluez,adapter=hci1" {
		t.Errorf("String: have=%q", rc.String())
	}
}

func TestRadioString(t *testing.T) {
	pm := newTestPrefMgr(t)

	if s := RadioString("", pm); s != DFLT_RADIO_STRING {
		t.Errorf("default: have=%q", s)
	}

	pm.Set(PREF_RADIO, "type=bluez")
	if s := RadioString("", pm); s != "type=bluez" {
		t.Errorf("preference: have=%q", s)
	}
	if s := RadioString("type=hci,hci=1", pm); s != "type=hci,hci=1" {
		t.Errorf("flag: have=%q", s)
	}
}

func TestBuildRadio(t *testing.T) {
	r, _ := BuildRadio(RadioConfig{Type: RADIO_TYPE_BLUEZ, Adapter: "hci0"})
	if _, ok := r.(*bluez.BluezRadio); !ok {
		t.Errorf("bluez config built %T", r)
	}
	if _, err := BuildScanner(r); err == nil {
		t.Errorf("expected error building scanner on bluez radio")
	}

	r, _ = BuildRadio(RadioConfig{Type: RADIO_TYPE_HCI})
	if _, ok := r.(*bll.BllRadio); !ok {
		t.Errorf("hci config built %T", r)
	}
	if _, err := BuildScanner(r); err != nil {
		t.Errorf("BuildScanner: %v", err)
	}
}
