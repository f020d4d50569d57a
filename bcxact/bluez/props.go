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
	"github.com/godbus/dbus/v5/prop"
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/xport"
)

// AdvProps expresses an encoded payload and scan response as LEAdvertisement1
// properties.  Structures BlueZ has no property for are dropped with a
// warning.
func AdvProps(settings xport.AdvSettings, adv []byte,
	rsp []byte) (map[string]*prop.Prop, error) {

	buf := append(append([]byte{}, adv...), rsp...)
	f := adfield.ParseFields(buf)
	if len(f.Structs) == 0 {
		return nil, bcxutil.NewEncodingError("no AD structures to advertise")
	}

	advType := "peripheral"
	if settings.ConnMode == bledefs.BLE_ADV_CONN_MODE_NON {
		advType = "broadcast"
	}

	uuids := []string{}
	for _, u := range f.Uuids16 {
		uuids = append(uuids, u.Uuid128String())
	}

	mfg := map[uint16]interface{}{}
	if f.MfgData != nil {
		mfg[f.MfgData.CompanyId] = f.MfgData.Payload
	}

	name := ""
	if f.Name != nil {
		name = *f.Name
	}

	includes := []string{}
	if f.TxPwrLvl != nil {
		includes = append(includes, "tx-power")
	}

	for _, s := range f.Unknown {
		log.Warnf("bluez: cannot advertise structure %s; dropping it",
			s.String())
	}
	if settings.OwnAddr != nil {
		log.Warnf("bluez: own address %s ignored; BlueZ selects the "+
			"advertising address", settings.OwnAddr.String())
	}

	return map[string]*prop.Prop{
		"Type":             {Value: advType},
		"ServiceUUIDs":     {Value: uuids},
		"ManufacturerData": {Value: mfg},
		"LocalName":        {Value: name},
		"Includes":         {Value: includes},
		"Timeout":          {Value: uint16(settings.Timeout.Seconds())},
	}, nil
}
