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
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

// Fields is the interpreted view of a decoded payload.  Each field is only
// present if the sender included it.  Structures whose value cannot be
// interpreted are still listed in Structs.
type Fields struct {
	Structs []AdStructure

	Flags             *uint8
	Uuids16           []bledefs.BleUuid16
	Uuids16IsComplete bool
	Name              *string
	NameIsComplete    bool
	TxPwrLvl          *int8
	MfgData           *MfgData

	// Structures of a type not interpreted above, in wire order.
	Unknown []AdStructure
}

// Uuids16 interprets a 16-bit UUID list value.  An odd or too-short value
// is malformed.
func Uuids16(value []byte) ([]bledefs.BleUuid16, bool) {
	if len(value) < 2 || len(value)%2 != 0 {
		return nil, false
	}

	uuids := make([]bledefs.BleUuid16, 0, len(value)/2)
	for i := 0; i < len(value); i += 2 {
		uuids = append(uuids,
			bledefs.BleUuid16(uint16(value[i+1])<<8|uint16(value[i])))
	}

	return uuids, true
}

func ParseFields(buf []byte) Fields {
	f := Fields{}

	it := NewIter(buf)
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		f.Structs = append(f.Structs, s)

		switch s.Type {
		case bledefs.BLE_AD_TYPE_FLAGS:
			if len(s.Value) >= 1 && f.Flags == nil {
				flags := s.Value[0]
				f.Flags = &flags
			}

		case bledefs.BLE_AD_TYPE_UUID16_COMP, bledefs.BLE_AD_TYPE_UUID16_INCOMP:
			if uuids, ok := Uuids16(s.Value); ok {
				f.Uuids16 = append(f.Uuids16, uuids...)
				if s.Type == bledefs.BLE_AD_TYPE_UUID16_COMP {
					f.Uuids16IsComplete = true
				}
			}

		case bledefs.BLE_AD_TYPE_NAME_COMP, bledefs.BLE_AD_TYPE_NAME_SHORT:
			if f.Name == nil {
				name := string(s.Value)
				f.Name = &name
				f.NameIsComplete = s.Type == bledefs.BLE_AD_TYPE_NAME_COMP
			}

		case bledefs.BLE_AD_TYPE_TX_PWR_LVL:
			if len(s.Value) == 1 && f.TxPwrLvl == nil {
				lvl := int8(s.Value[0])
				f.TxPwrLvl = &lvl
			}

		case bledefs.BLE_AD_TYPE_MFG_DATA:
			if f.MfgData == nil {
				f.MfgData = ParseMfgData(s.Value)
			}

		default:
			f.Unknown = append(f.Unknown, s)
		}
	}

	return f
}

// BuildFields produces structures for the populated fields, in the
// conventional order flags, uuids, name, tx power, manufacturer data.
func BuildFields(f Fields) []AdStructure {
	var structs []AdStructure

	if f.Flags != nil {
		structs = append(structs, AdStructure{
			Type:  bledefs.BLE_AD_TYPE_FLAGS,
			Value: []byte{*f.Flags},
		})
	}

	if len(f.Uuids16) > 0 {
		t := bledefs.BleAdType(bledefs.BLE_AD_TYPE_UUID16_INCOMP)
		if f.Uuids16IsComplete {
			t = bledefs.BLE_AD_TYPE_UUID16_COMP
		}
		v := make([]byte, 0, len(f.Uuids16)*2)
		for _, u := range f.Uuids16 {
			v = append(v, byte(u), byte(u>>8))
		}
		structs = append(structs, AdStructure{Type: t, Value: v})
	}

	if f.Name != nil {
		t := bledefs.BleAdType(bledefs.BLE_AD_TYPE_NAME_SHORT)
		if f.NameIsComplete {
			t = bledefs.BLE_AD_TYPE_NAME_COMP
		}
		structs = append(structs, AdStructure{Type: t, Value: []byte(*f.Name)})
	}

	if f.TxPwrLvl != nil {
		structs = append(structs, AdStructure{
			Type:  bledefs.BLE_AD_TYPE_TX_PWR_LVL,
			Value: []byte{byte(*f.TxPwrLvl)},
		})
	}

	if f.MfgData != nil {
		structs = append(structs, f.MfgData.Structure())
	}

	return structs
}
