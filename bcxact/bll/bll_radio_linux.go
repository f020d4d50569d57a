//go:build linux
// +build linux

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

package bll

import (
	"fmt"
	"os"
	"sync"

	"github.com/JuulLabs-OSS/ble"
	"github.com/JuulLabs-OSS/ble/linux"
	"github.com/JuulLabs-OSS/ble/linux/hci"
	"github.com/JuulLabs-OSS/ble/linux/hci/cmd"
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/xport"
)

// HCI error codes that map to a specific start status.
const (
	hciErrUnknownCmd     = 0x01
	hciErrCmdDisallowed  = 0x0c
	hciErrLimitReached   = 0x43
	hciErrUnsupportedFtr = 0x11
)

// Advertising types (Bluetooth Core Vol 4, Part E, 7.8.5).
const (
	advTypeInd        = 0x00
	advTypeNonconnInd = 0x03
)

type XportCfg struct {
	// hciN
	DevIdx int
}

func NewXportCfg() XportCfg {
	return XportCfg{}
}

// BllRadio advertises through the controller behind an HCI user socket.
// Commands are issued from a goroutine per start request; mtx serializes
// them with stop requests.
type BllRadio struct {
	cfg XportCfg

	mtx     sync.Mutex
	dev     *linux.Device
	nextTok xport.AdvToken
	curTok  xport.AdvToken
	active  bool
}

func NewBllRadio(cfg XportCfg) *BllRadio {
	return &BllRadio{
		cfg: cfg,
	}
}

func (r *BllRadio) devName() string {
	return fmt.Sprintf("hci%d", r.cfg.DevIdx)
}

func (r *BllRadio) Open() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.dev != nil {
		return bcxutil.NewAlreadyError("HCI device already open")
	}

	d, err := linux.NewDevice(ble.OptDeviceID(r.cfg.DevIdx))
	if err != nil {
		return bcxutil.FmtXportError("failed to open %s: %s",
			r.devName(), err.Error())
	}

	log.Debugf("Opened %s", r.devName())
	r.dev = d
	return nil
}

func (r *BllRadio) Close() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.dev == nil {
		return nil
	}

	d := r.dev
	r.dev = nil
	r.active = false

	return d.Stop()
}

func (r *BllRadio) Present() bool {
	_, err := os.Stat("/sys/class/bluetooth/" + r.devName())
	return err == nil
}

// The HCI stack powers the controller up when the device is opened, so an
// open device is an enabled one.
func (r *BllRadio) Enabled() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.dev != nil
}

func (r *BllRadio) StartAdvertising(settings xport.AdvSettings,
	adv []byte, rsp []byte, cb xport.AdvCallback) (xport.AdvToken, error) {

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.dev == nil {
		return 0, bcxutil.NewXportError("HCI device not open")
	}

	r.nextTok++
	tok := r.nextTok
	r.curTok = tok

	advCopy := append([]byte{}, adv...)
	rspCopy := append([]byte{}, rsp...)

	go func() {
		cb(r.startAdv(tok, settings, advCopy, rspCopy))
	}()

	return tok, nil
}

func (r *BllRadio) startAdv(tok xport.AdvToken, settings xport.AdvSettings,
	adv []byte, rsp []byte) int {

	r.mtx.Lock()
	defer r.mtx.Unlock()

	// Stopped or superseded before we got here.
	if r.dev == nil || tok != r.curTok {
		log.Debugf("bll: start %d abandoned", tok)
		return xport.ADV_FAILED_INTERNAL_ERROR
	}
	if r.active {
		return xport.ADV_FAILED_ALREADY_STARTED
	}

	h := r.dev.HCI

	if settings.OwnAddr != nil {
		c := cmd.LESetRandomAddress{
			RandomAddress: settings.OwnAddr.Reversed(),
		}
		if err := h.Send(&c, nil); err != nil {
			log.Errorf("bll: failed to set random address %s: %s",
				settings.OwnAddr.String(), err.Error())
			return advStatusFromErr(err)
		}
	}

	itvlMin, itvlMax := settings.Mode.Itvls()
	advType := uint8(advTypeInd)
	if settings.ConnMode == bledefs.BLE_ADV_CONN_MODE_NON {
		advType = advTypeNonconnInd
	}

	params := cmd.LESetAdvertisingParameters{
		AdvertisingIntervalMin:  itvlMin,
		AdvertisingIntervalMax:  itvlMax,
		AdvertisingType:         advType,
		OwnAddressType:          uint8(settings.OwnAddrType),
		DirectAddressType:       0x00,
		DirectAddress:           [6]byte{},
		AdvertisingChannelMap:   0x07, // All channels
		AdvertisingFilterPolicy: 0x00, // No white list
	}
	if err := h.Send(&params, nil); err != nil {
		log.Errorf("bll: failed to set advertising parameters: %s",
			err.Error())
		return advStatusFromErr(err)
	}

	if err := h.SetAdvertisement(adv, rsp); err != nil {
		log.Errorf("bll: failed to set advertising data: %s", err.Error())
		return advStatusFromErr(err)
	}

	if err := h.Advertise(); err != nil {
		log.Errorf("bll: failed to enable advertising: %s", err.Error())
		return advStatusFromErr(err)
	}

	r.active = true
	log.Debugf("bll: advertising on %s (%s)", r.devName(), settings.String())

	return xport.ADV_STATUS_SUCCESS
}

func (r *BllRadio) StopAdvertising(tok xport.AdvToken) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if tok != r.curTok {
		return nil
	}

	// Abandons a start that has not run yet.
	r.curTok = 0

	if r.dev == nil || !r.active {
		return nil
	}
	r.active = false

	if err := r.dev.HCI.StopAdvertising(); err != nil {
		return bcxutil.FmtXportError("failed to stop advertising: %s",
			err.Error())
	}

	return nil
}

// Device exposes the open HCI device so that a scanner can share it.
func (r *BllRadio) Device() *linux.Device {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.dev
}

func advStatusFromErr(err error) int {
	if err == ble.ErrEIRPacketTooLong {
		return xport.ADV_FAILED_DATA_TOO_LARGE
	}

	if e, ok := err.(hci.ErrCommand); ok {
		switch byte(e) {
		case hciErrUnknownCmd, hciErrUnsupportedFtr:
			return xport.ADV_FAILED_FEATURE_UNSUPPORTED
		case hciErrCmdDisallowed:
			return xport.ADV_FAILED_ALREADY_STARTED
		case hciErrLimitReached:
			return xport.ADV_FAILED_TOO_MANY_ADVERTISERS
		}
	}

	return xport.ADV_FAILED_INTERNAL_ERROR
}

// RootPerms grants every permission to root only; raw HCI sockets need
// CAP_NET_ADMIN.
var RootPerms xport.PermOracle = xport.PermOracleFunc(func(string) bool {
	return os.Geteuid() == 0
})
