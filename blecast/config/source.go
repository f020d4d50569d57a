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
	"strconv"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
)

// BroadcastSource serves the advertiser's configuration out of the
// preference store.
type BroadcastSource struct {
	pm *PrefMgr
}

func NewBroadcastSource(pm *PrefMgr) *BroadcastSource {
	return &BroadcastSource{pm: pm}
}

// An unset address or payload stays empty and fails validation when
// advertising starts.  Only the signal level has a default.
func (s *BroadcastSource) BroadcastConfig() (adv.BroadcastConfig, error) {
	return adv.BroadcastConfig{
		TargetAddr:   s.pm.GetString(PREF_MAC, ""),
		PayloadHex:   s.pm.GetString(PREF_DATA, ""),
		SignalLevel:  s.pm.GetString(PREF_RSSI, strconv.Itoa(cfgcheck.DFLT_RSSI)),
		CompanyLabel: s.pm.GetString(PREF_COMPANY, ""),
	}, nil
}

func (s *BroadcastSource) SetEnabled(enabled bool) error {
	return s.pm.Set(PREF_ENABLED, enabled)
}

func (s *BroadcastSource) Enabled() bool {
	return s.pm.GetBool(PREF_ENABLED)
}

// Apply stores the given configuration.  Values are normalized but not
// validated; validation happens when advertising starts.
func (s *BroadcastSource) Apply(bc adv.BroadcastConfig) error {
	vals := map[string]interface{}{
		PREF_DATA:    bc.PayloadHex,
		PREF_RSSI:    bc.SignalLevel,
		PREF_COMPANY: bc.CompanyLabel,
	}
	if cfgcheck.IsValidMac(bc.TargetAddr) {
		vals[PREF_MAC] = cfgcheck.FormatMac(bc.TargetAddr)
	} else {
		vals[PREF_MAC] = bc.TargetAddr
	}

	return s.pm.SetMulti(vals)
}
