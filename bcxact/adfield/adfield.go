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

// Package adfield encodes and decodes sequences of GAP advertising data
// structures.  Each structure is laid out on the wire as
//
//	[len] [type] [value ...]
//
// where len counts the type byte plus the value.  Decoding never fails:
// a zero length byte or a structure overrunning the buffer simply ends the
// sequence.
package adfield

import (
	"bytes"
	"fmt"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

type AdStructure struct {
	Type  bledefs.BleAdType
	Value []byte
}

// Len is the value of the structure's length byte.
func (s AdStructure) Len() int {
	return 1 + len(s.Value)
}

// Bytes returns the wire form, length byte included.
func (s AdStructure) Bytes() ([]byte, error) {
	if s.Len() > bledefs.BLE_AD_STRUCT_MAX_LEN {
		return nil, bcxutil.FmtEncodingError(
			"AD structure too long: type=%s len=%d max=%d",
			bledefs.BleAdTypeToString(s.Type), s.Len(),
			bledefs.BLE_AD_STRUCT_MAX_LEN)
	}

	b := make([]byte, 0, 1+s.Len())
	b = append(b, byte(s.Len()), byte(s.Type))
	return append(b, s.Value...), nil
}

func (s AdStructure) Equal(o AdStructure) bool {
	return s.Type == o.Type && bytes.Equal(s.Value, o.Value)
}

func (s AdStructure) String() string {
	return fmt.Sprintf("%s[%d]=%s", bledefs.BleAdTypeToString(s.Type),
		len(s.Value), bcxutil.HexString(s.Value))
}

// Iter walks a buffer one structure at a time.  It holds no state beyond an
// offset, so Reset restarts it from the beginning.
type Iter struct {
	buf []byte
	off int
}

func NewIter(buf []byte) *Iter {
	return &Iter{buf: buf}
}

// Next returns the next structure.  The returned value is a copy; it does
// not alias the iterated buffer.
//
// @return                      the structure and true if one was decoded;
//                              false once the sequence has ended.
func (it *Iter) Next() (AdStructure, bool) {
	if it.off >= len(it.buf) {
		return AdStructure{}, false
	}

	l := int(it.buf[it.off])
	if l == 0 || it.off+1+l > len(it.buf) {
		// Padding or truncated tail.  Park the offset at the end so that
		// subsequent calls keep reporting end-of-sequence.
		it.off = len(it.buf)
		return AdStructure{}, false
	}

	start := it.off + 2
	end := it.off + 1 + l
	s := AdStructure{
		Type:  bledefs.BleAdType(it.buf[it.off+1]),
		Value: append([]byte{}, it.buf[start:end]...),
	}
	it.off = end

	return s, true
}

func (it *Iter) Reset() {
	it.off = 0
}

// Decode materializes every well-formed structure in buf.
func Decode(buf []byte) []AdStructure {
	var structs []AdStructure

	it := NewIter(buf)
	for {
		s, ok := it.Next()
		if !ok {
			return structs
		}
		structs = append(structs, s)
	}
}

// First returns the first structure satisfying pred without decoding the rest
// of the buffer.
func First(buf []byte, pred func(s AdStructure) bool) (AdStructure, bool) {
	it := NewIter(buf)
	for {
		s, ok := it.Next()
		if !ok {
			return AdStructure{}, false
		}
		if pred(s) {
			return s, true
		}
	}
}

// FirstOfType returns the first structure with the given AD type.
func FirstOfType(buf []byte, t bledefs.BleAdType) (AdStructure, bool) {
	return First(buf, func(s AdStructure) bool {
		return s.Type == t
	})
}

// Encode concatenates the wire forms of the given structures.  It does not
// enforce the 31-byte packet limit.
func Encode(structs []AdStructure) ([]byte, error) {
	var buf bytes.Buffer

	for _, s := range structs {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}

	return buf.Bytes(), nil
}

// A primary advertising payload with its scan response.
type Packet struct {
	Adv []AdStructure
	Rsp []AdStructure
}

func (p *Packet) Encode() (adv []byte, rsp []byte, err error) {
	adv, err = Encode(p.Adv)
	if err != nil {
		return nil, nil, err
	}

	rsp, err = Encode(p.Rsp)
	if err != nil {
		return nil, nil, err
	}

	return adv, rsp, nil
}

// EncodeChecked encodes the packet and rejects either half exceeding the
// legacy advertising limit.
func (p *Packet) EncodeChecked() ([]byte, []byte, error) {
	adv, rsp, err := p.Encode()
	if err != nil {
		return nil, nil, err
	}

	if len(adv) > bledefs.BLE_ADV_DATA_MAX_LEN {
		return nil, nil, bcxutil.FmtEncodingError(
			"advertising data too long: %d bytes, max %d",
			len(adv), bledefs.BLE_ADV_DATA_MAX_LEN)
	}
	if len(rsp) > bledefs.BLE_ADV_DATA_MAX_LEN {
		return nil, nil, bcxutil.FmtEncodingError(
			"scan response too long: %d bytes, max %d",
			len(rsp), bledefs.BLE_ADV_DATA_MAX_LEN)
	}

	return adv, rsp, nil
}
