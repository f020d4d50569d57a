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
	"bytes"
	"encoding/hex"
	"testing"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

const samplePayload = "02011A17FF0002317D89030000000F0295699D011000000003FE3C"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func structsEqual(a []AdStructure, b []AdStructure) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestDecodeSample(t *testing.T) {
	structs := Decode(mustHex(t, samplePayload))
	if len(structs) != 2 {
		t.Fatalf("decoded %d structures, want 2: %v", len(structs), structs)
	}

	if structs[0].Type != bledefs.BLE_AD_TYPE_FLAGS ||
		!bytes.Equal(structs[0].Value, []byte{0x1a}) {

		t.Errorf("unexpected flags structure: %s", structs[0].String())
	}
	if structs[1].Type != bledefs.BLE_AD_TYPE_MFG_DATA || len(structs[1].Value) != 22 {
		t.Errorf("unexpected mfg structure: %s", structs[1].String())
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]AdStructure{
		nil,
		{{Type: 0x01, Value: []byte{0x06}}},
		{{Type: 0x09, Value: []byte{}}},
		{
			{Type: 0x01, Value: []byte{0x1a}},
			{Type: 0x03, Value: []byte{0x3c, 0xfe, 0x0f, 0x18}},
			{Type: 0xff, Value: []byte{0x4c, 0x00, 0x02, 0x15}},
		},
		{{Type: 0x42, Value: bytes.Repeat([]byte{0xaa}, 254)}},
	}

	for i, c := range cases {
		buf, err := Encode(c)
		if err != nil {
			t.Fatalf("case %d: encode failed: %v", i, err)
		}

		back := Decode(buf)
		if !structsEqual(back, c) {
			t.Errorf("case %d: round trip mismatch: got %v want %v", i, back, c)
		}
	}
}

func TestEncodeTooLong(t *testing.T) {
	s := AdStructure{Type: 0xff, Value: make([]byte, 255)}

	_, err := Encode([]AdStructure{s})
	if err == nil {
		t.Fatalf("expected encoding error for %d byte structure", s.Len())
	}
	if !bcxutil.IsEncoding(err) {
		t.Errorf("expected *EncodingError, got %T", err)
	}
}

func TestDecodeTruncation(t *testing.T) {
	full := mustHex(t, "0201060303"+"0f18"+"05ff4c000215")
	wellFormed := Decode(full)
	if len(wellFormed) != 3 {
		t.Fatalf("decoded %d structures, want 3", len(wellFormed))
	}

	// Every prefix decodes to a prefix of the full sequence.
	for n := 0; n <= len(full); n++ {
		got := Decode(full[:n])
		if len(got) > len(wellFormed) {
			t.Fatalf("prefix %d: too many structures", n)
		}
		if !structsEqual(got, wellFormed[:len(got)]) {
			t.Errorf("prefix %d: got %v", n, got)
		}
	}
}

func TestDecodeStopsAtZeroLength(t *testing.T) {
	buf := mustHex(t, "020106"+"00"+"03ff4c00")
	got := Decode(buf)
	if len(got) != 1 || got[0].Type != bledefs.BLE_AD_TYPE_FLAGS {
		t.Errorf("expected only the flags structure, got %v", got)
	}
}

func TestDecodeLengthWithoutType(t *testing.T) {
	got := Decode(mustHex(t, "02010601"))
	if len(got) != 1 {
		t.Errorf("dangling length byte should end decoding, got %v", got)
	}
}

func TestIterReset(t *testing.T) {
	it := NewIter(mustHex(t, samplePayload))

	first, ok := it.Next()
	if !ok {
		t.Fatal("expected a structure")
	}
	it.Next()
	if _, ok := it.Next(); ok {
		t.Fatal("expected end of sequence")
	}
	if _, ok := it.Next(); ok {
		t.Fatal("iterator must stay exhausted")
	}

	it.Reset()
	again, ok := it.Next()
	if !ok || !again.Equal(first) {
		t.Errorf("Reset did not restart iteration: %v", again)
	}
}

func TestIterDoesNotAlias(t *testing.T) {
	buf := mustHex(t, "020106")
	s, _ := NewIter(buf).Next()
	buf[2] = 0xee
	if s.Value[0] != 0x06 {
		t.Errorf("decoded value aliases the source buffer")
	}
}

func TestFirstOfType(t *testing.T) {
	// The trailing structure overruns the buffer; a first-match query
	// that stops early must still find the earlier match.
	buf := mustHex(t, "020106"+"03ff3412"+"1e09")

	s, ok := FirstOfType(buf, bledefs.BLE_AD_TYPE_MFG_DATA)
	if !ok || !bytes.Equal(s.Value, []byte{0x34, 0x12}) {
		t.Errorf("FirstOfType: %v %v", s, ok)
	}

	_, ok = FirstOfType(buf, bledefs.BLE_AD_TYPE_NAME_COMP)
	if ok {
		t.Errorf("truncated structure should not be found")
	}
}

func TestExtractMfgData(t *testing.T) {
	m := ExtractMfgData(mustHex(t, samplePayload))
	if m == nil {
		t.Fatal("expected manufacturer data")
	}
	if m.CompanyId != 0x0200 {
		t.Errorf("CompanyId = 0x%04x, want 0x0200", m.CompanyId)
	}
	if len(m.Payload) != 20 {
		t.Errorf("payload length = %d, want 20", len(m.Payload))
	}

	if m := ExtractMfgData(mustHex(t, "020106")); m != nil {
		t.Errorf("expected nil for payload without mfg data, got %s", m.String())
	}
	if m := ExtractMfgData(mustHex(t, "02ff4c")); m != nil {
		t.Errorf("expected nil for short mfg data, got %s", m.String())
	}
}

func TestMfgRoundTripAllIds(t *testing.T) {
	for id := 0; id <= 0xffff; id++ {
		payload := bytes.Repeat([]byte{byte(id)}, id%29)

		s := BuildMfgStructure(uint16(id), payload)
		buf, err := Encode([]AdStructure{s})
		if err != nil {
			t.Fatalf("id 0x%04x: %v", id, err)
		}

		m := ExtractMfgData(buf)
		if m == nil || m.CompanyId != uint16(id) || !bytes.Equal(m.Payload, payload) {
			t.Fatalf("id 0x%04x: round trip failed: %v", id, m)
		}
	}
}

func TestMfgRoundTripAllLengths(t *testing.T) {
	for n := 0; n <= 28; n++ {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i * 7)
		}

		buf, err := Encode([]AdStructure{BuildMfgStructure(0x004c, payload)})
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != n+4 {
			t.Errorf("len %d: encoded %d bytes", n, len(buf))
		}

		m := ExtractMfgData(buf)
		if m == nil || m.CompanyId != 0x004c || !bytes.Equal(m.Payload, payload) {
			t.Errorf("len %d: round trip failed", n)
		}
	}
}

func TestPacketEncodeChecked(t *testing.T) {
	p := Packet{
		Adv: []AdStructure{BuildMfgStructure(0x0059, make([]byte, 27))},
	}
	adv, rsp, err := p.EncodeChecked()
	if err != nil {
		t.Fatalf("31 byte packet rejected: %v", err)
	}
	if len(adv) != 31 || len(rsp) != 0 {
		t.Errorf("unexpected lengths adv=%d rsp=%d", len(adv), len(rsp))
	}

	p.Adv[0] = BuildMfgStructure(0x0059, make([]byte, 28))
	if _, _, err := p.EncodeChecked(); !bcxutil.IsEncoding(err) {
		t.Errorf("32 byte packet: expected encoding error, got %v", err)
	}
}
