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

package bluez

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"

	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/xport"
)

func TestAdvProps(t *testing.T) {
	adv, _ := hex.DecodeString(
		"02011A17FF0002317D89030000000F0295699D011000000003FE3C")
	rsp, _ := hex.DecodeString("03033CFE0409746167")

	settings := xport.NewAdvSettings()
	settings.Timeout = 90 * time.Second

	props, err := AdvProps(settings, adv, rsp)
	if err != nil {
		t.Fatalf("AdvProps: %v", err)
	}

	if v := props["Type"].Value; v != "peripheral" {
		t.Errorf("Type: have=%v", v)
	}
	if v := props["LocalName"].Value; v != "tag" {
		t.Errorf("LocalName: have=%v", v)
	}
	if v := props["Timeout"].Value; v != uint16(90) {
		t.Errorf("Timeout: have=%v", v)
	}

	uuids := props["ServiceUUIDs"].Value.([]string)
	if len(uuids) != 1 || uuids[0] != "0000FE3C-0000-1000-8000-00805F9B34FB" {
		t.Errorf("ServiceUUIDs: have=%v", uuids)
	}

	mfg := props["ManufacturerData"].Value.(map[uint16]interface{})
	payload, ok := mfg[0x0200].([]byte)
	if !ok || len(mfg) != 1 {
		t.Fatalf("ManufacturerData: have=%v", mfg)
	}
	if got := hex.EncodeToString(payload); got !=
		"317d89030000000f0295699d011000000003fe3c" {

		t.Errorf("manufacturer payload: have=%s", got)
	}
}

func TestAdvPropsNonConnectable(t *testing.T) {
	settings := xport.NewAdvSettings()
	settings.ConnMode = bledefs.BLE_ADV_CONN_MODE_NON

	props, err := AdvProps(settings, []byte{0x02, 0x0a, 0x04}, nil)
	if err != nil {
		t.Fatalf("AdvProps: %v", err)
	}
	if v := props["Type"].Value; v != "broadcast" {
		t.Errorf("Type: have=%v", v)
	}

	includes := props["Includes"].Value.([]string)
	if len(includes) != 1 || includes[0] != "tx-power" {
		t.Errorf("Includes: have=%v", includes)
	}
}

func TestAdvPropsEmpty(t *testing.T) {
	if _, err := AdvProps(xport.NewAdvSettings(), []byte{0x00}, nil); err == nil {
		t.Errorf("expected error for payload without structures")
	}
}

func TestAdvStatusFromErr(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, xport.ADV_STATUS_SUCCESS},
		{dbus.Error{Name: "org.bluez.Error.AlreadyExists"},
			xport.ADV_FAILED_ALREADY_STARTED},
		{dbus.Error{Name: "org.bluez.Error.InvalidLength"},
			xport.ADV_FAILED_DATA_TOO_LARGE},
		{dbus.Error{Name: "org.bluez.Error.NotPermitted"},
			xport.ADV_FAILED_TOO_MANY_ADVERTISERS},
		{dbus.Error{Name: "org.bluez.Error.NotSupported"},
			xport.ADV_FAILED_FEATURE_UNSUPPORTED},
		{dbus.Error{Name: "org.bluez.Error.Failed"},
			xport.ADV_FAILED_INTERNAL_ERROR},
		{fmt.Errorf("connection reset"), xport.ADV_FAILED_INTERNAL_ERROR},
	}

	for _, test := range tests {
		if got := AdvStatusFromErr(test.err); got != test.want {
			t.Errorf("AdvStatusFromErr(%v): have=%d want=%d",
				test.err, got, test.want)
		}
	}
}
