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
	"fmt"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

// Manufacturer specific data: a little-endian company identifier followed by
// an opaque payload.
type MfgData struct {
	CompanyId uint16
	Payload   []byte
}

func (m *MfgData) String() string {
	return fmt.Sprintf("company=0x%04x payload=%s",
		m.CompanyId, bcxutil.HexString(m.Payload))
}

// ParseMfgData interprets the value of a 0xff structure.  Values shorter than
// the two byte company identifier are malformed and yield nil.
func ParseMfgData(value []byte) *MfgData {
	if len(value) < 2 {
		return nil
	}

	return &MfgData{
		CompanyId: uint16(value[1])<<8 | uint16(value[0]),
		Payload:   append([]byte{}, value[2:]...),
	}
}

// ExtractMfgData returns the first manufacturer data structure in buf, or nil
// if there is none or it is malformed.
func ExtractMfgData(buf []byte) *MfgData {
	s, ok := FirstOfType(buf, bledefs.BLE_AD_TYPE_MFG_DATA)
	if !ok {
		return nil
	}

	return ParseMfgData(s.Value)
}

func BuildMfgStructure(companyId uint16, payload []byte) AdStructure {
	v := make([]byte, 0, 2+len(payload))
	v = append(v, byte(companyId), byte(companyId>>8))
	v = append(v, payload...)

	return AdStructure{
		Type:  bledefs.BLE_AD_TYPE_MFG_DATA,
		Value: v,
	}
}

func (m *MfgData) Structure() AdStructure {
	return BuildMfgStructure(m.CompanyId, m.Payload)
}
