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
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/bll"
	"mynewt.apache.org/blecast/bcxact/bluez"
	"mynewt.apache.org/blecast/bcxact/scan"
	"mynewt.apache.org/blecast/bcxact/xport"
)

const DFLT_RADIO_STRING = "type=hci,hci=0"

type RadioType int

const (
	RADIO_TYPE_HCI RadioType = iota
	RADIO_TYPE_BLUEZ
)

var radioTypeNameMap = map[RadioType]string{
	RADIO_TYPE_HCI:   "hci",
	RADIO_TYPE_BLUEZ: "bluez",
}

func RadioTypeToString(rt RadioType) string {
	s := radioTypeNameMap[rt]
	if s == "" {
		return "???"
	}

	return s
}

func RadioTypeFromString(s string) (RadioType, error) {
	for k, v := range radioTypeNameMap {
		if s == v {
			return k, nil
		}
	}

	return RadioType(0), util.FmtNewtError("Invalid radio type: %s", s)
}

type RadioConfig struct {
	Type    RadioType
	HciIdx  int
	Adapter string
}

func NewRadioConfig() RadioConfig {
	return RadioConfig{
		Type:    RADIO_TYPE_HCI,
		Adapter: bluez.NewXportCfg().Adapter,
	}
}

func (rc RadioConfig) String() string {
	switch rc.Type {
	case RADIO_TYPE_BLUEZ:
		return fmt.Sprintf("type=bluez,adapter=%s", rc.Adapter)
	default:
		return fmt.Sprintf("type=hci,hci=%d", rc.HciIdx)
	}
}

func einvalKvString(f string, args ...interface{}) error {
	suffix := fmt.Sprintf(f, args...)
	return util.FmtNewtError("Invalid key=value string; %s", suffix)
}

// ParseKvString splits "k1=v1,k2=v2" (commas or spaces) into ordered pairs.
func ParseKvString(s string) ([][2]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	pairs := make([][2]string, 0, len(fields))
	for _, p := range fields {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, einvalKvString("expected comma-separated "+
				"key=value pairs; no '=' in: %s", p)
		}

		pairs = append(pairs, [2]string{kv[0], kv[1]})
	}

	return pairs, nil
}

func ParseRadioString(s string) (RadioConfig, error) {
	rc := NewRadioConfig()

	pairs, err := ParseKvString(s)
	if err != nil {
		return rc, err
	}

	for _, kv := range pairs {
		k, v := kv[0], kv[1]

		switch k {
		case "type":
			rc.Type, err = RadioTypeFromString(v)
			if err != nil {
				return rc, err
			}
		case "hci":
			rc.HciIdx, err = cast.ToIntE(v)
			if err != nil || rc.HciIdx < 0 {
				return rc, einvalKvString("Invalid hci index: %s", v)
			}
		case "adapter":
			if v == "" {
				return rc, einvalKvString("empty adapter name")
			}
			rc.Adapter = v
		default:
			return rc, einvalKvString("Unrecognized key: %s", k)
		}
	}

	return rc, nil
}

// RadioString picks the radio connstring: the flag value, then the stored
// preference, then the default.
func RadioString(flag string, pm *PrefMgr) string {
	if flag != "" {
		return flag
	}
	if pm != nil {
		if s := pm.GetString(PREF_RADIO, ""); s != "" {
			return s
		}
	}

	return DFLT_RADIO_STRING
}

// BuildRadio constructs an unopened radio together with the permission
// oracle that guards it.
func BuildRadio(rc RadioConfig) (xport.Radio, xport.PermOracle) {
	switch rc.Type {
	case RADIO_TYPE_BLUEZ:
		cfg := bluez.NewXportCfg()
		cfg.Adapter = rc.Adapter
		return bluez.NewBluezRadio(cfg), xport.AllowAll

	default:
		cfg := bll.NewXportCfg()
		cfg.DevIdx = rc.HciIdx
		return bll.NewBllRadio(cfg), bll.RootPerms
	}
}

// BuildScanner returns a scanner sharing the radio's device.  Only the HCI
// radio can scan.
func BuildScanner(r xport.Radio) (scan.Scanner, error) {
	br, ok := r.(*bll.BllRadio)
	if !ok {
		return nil, util.NewNewtError("scanning requires an hci radio")
	}

	return bll.NewBllScanner(br), nil
}
