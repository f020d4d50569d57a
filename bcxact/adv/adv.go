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

package adv

import (
	"time"

	"mynewt.apache.org/blecast/bcxact/xport"
)

// What to broadcast.  Values are kept in their stored string form and are
// validated each time advertising starts.
type BroadcastConfig struct {
	// Colon or hyphen separated MAC address.
	TargetAddr string `json:"mac"`

	// Raw advertising payload as hex, at most 31 bytes.
	PayloadHex string `json:"data"`

	// Decimal dBm.
	SignalLevel string `json:"rssi"`

	// Display only.
	CompanyLabel string `json:"company"`
}

// Supplies the broadcast configuration.  The advertiser reads it afresh on
// every start and never caches it.
type ConfigSource interface {
	BroadcastConfig() (BroadcastConfig, error)

	// Records whether advertising is running.
	SetEnabled(enabled bool) error
}

// Foreground represents whatever keeps the user informed that a broadcast is
// in progress.  Acquire is called just before the radio is asked to start,
// Release on every path that ends the session.  Tick is called from the
// housekeeping goroutine while advertising is active.
type Foreground interface {
	Acquire(maxDuration time.Duration)
	Tick(remaining time.Duration)
	Release()
}

type Cfg struct {
	// Advertising is stopped automatically after this long.
	MaxDuration time.Duration

	// Period of the housekeeping tick while advertising.
	TickInterval time.Duration

	// Pause between stopping and restarting on a configuration update.
	SettleDelay time.Duration

	Settings xport.AdvSettings
}

const (
	DFLT_MAX_DURATION  = 6 * time.Minute
	DFLT_TICK_INTERVAL = time.Second
	DFLT_SETTLE_DELAY  = time.Second
)

func NewCfg() Cfg {
	return Cfg{
		MaxDuration:  DFLT_MAX_DURATION,
		TickInterval: DFLT_TICK_INTERVAL,
		SettleDelay:  DFLT_SETTLE_DELAY,
		Settings:     xport.NewAdvSettings(),
	}
}

type Advertiser interface {
	// Requests advertising with the current configuration.  The outcome is
	// reported as an event.
	Start() error

	// Stops advertising.  Safe to call in any state.
	Stop() error

	// Restarts a running broadcast with freshly read configuration.
	UpdateConfig() error

	State() State
	Bus() *EventBus

	// Stops advertising and releases the advertiser.
	Close() error
}
