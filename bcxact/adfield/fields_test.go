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

package adfield

import (
	"reflect"
	"testing"

	"mynewt.apache.org/blecast/bcxact/bledefs"
)

func TestUuids16(t *testing.T) {
	uuids, ok := Uuids16([]byte{0x3c, 0xfe, 0x0f, 0x18})
	if !ok {
		t.Fatal("expected a valid UUID list")
	}
	want := []bledefs.BleUuid16{0xfe3c, 0x180f}
	if !reflect.DeepEqual(uuids, want) {
		t.Errorf("got %v, want %v", uuids, want)
	}

	for _, bad := range [][]byte{nil, {0x01}, {0x01, 0x02, 0x03}} {
		if _, ok := Uuids16(bad); ok {
			t.Errorf("Uuids16(% x) should be malformed", bad)
		}
	}
}

func TestParseFields(t *testing.T) {
	buf := mustHex(t, "020106"+"0503"+"3cfe0f18"+"0409"+"626373"+"020af4"+
		"0516"+"aabbccdd"+"05ff4c000215")

	f := ParseFields(buf)

	if f.Flags == nil || *f.Flags != 0x06 {
		t.Errorf("flags not parsed")
	}
	if !f.Uuids16IsComplete || len(f.Uuids16) != 2 || f.Uuids16[0] != 0xfe3c {
		t.Errorf("uuids not parsed: %v", f.Uuids16)
	}
	if f.Name == nil || *f.Name != "bcs" || !f.NameIsComplete {
		t.Errorf("name not parsed")
	}
	if f.TxPwrLvl == nil || *f.TxPwrLvl != -12 {
		t.Errorf("tx power not parsed")
	}
	if f.MfgData == nil || f.MfgData.CompanyId != 0x004c {
		t.Errorf("mfg data not parsed")
	}
	if len(f.Unknown) != 1 || f.Unknown[0].Type != bledefs.BLE_AD_TYPE_SVC_DATA_UUID16 {
		t.Errorf("unknown structures not preserved: %v", f.Unknown)
	}
	if len(f.Structs) != 6 {
		t.Errorf("Structs has %d entries, want 6", len(f.Structs))
	}
}

func TestParseFieldsMalformedUuids(t *testing.T) {
	// Odd-length UUID list: skipped for interpretation, decoding continues.
	f := ParseFields(mustHex(t, "0403010203"+"020106"))

	if len(f.Uuids16) != 0 {
		t.Errorf("malformed UUID list interpreted: %v", f.Uuids16)
	}
	if f.Flags == nil {
		t.Errorf("decoding stopped after malformed UUID list")
	}
	if len(f.Structs) != 2 {
		t.Errorf("Structs has %d entries, want 2", len(f.Structs))
	}
}

func TestBuildFields(t *testing.T) {
	flags := uint8(0x06)
	name := "bcs"
	f := Fields{
		Flags:             &flags,
		Uuids16:           []bledefs.BleUuid16{0xfe3c},
		Uuids16IsComplete: true,
		Name:              &name,
		NameIsComplete:    true,
		MfgData:           &MfgData{CompanyId: 0x0059, Payload: []byte{1, 2}},
	}

	buf, err := Encode(BuildFields(f))
	if err != nil {
		t.Fatal(err)
	}

	back := ParseFields(buf)
	if *back.Flags != flags || *back.Name != name ||
		back.Uuids16[0] != 0xfe3c || back.MfgData.CompanyId != 0x0059 {

		t.Errorf("BuildFields/ParseFields mismatch: %+v", back)
	}
}
