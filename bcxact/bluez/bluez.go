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

// Package bluez advertises through the BlueZ daemon over D-Bus.  Payloads are
// translated into LEAdvertisement1 properties; BlueZ generates the flags
// structure itself.
package bluez

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/xport"
)

const (
	bluezService       = "org.bluez"
	adapterIface       = "org.bluez.Adapter1"
	advIface           = "org.bluez.LEAdvertisement1"
	advMgrIface        = "org.bluez.LEAdvertisingManager1"
	propsIface         = "org.freedesktop.DBus.Properties"
	advObjPathTemplate = "/org/apache/mynewt/blecast/adv%d"
)

type XportCfg struct {
	// Adapter name, e.g. hci0.
	Adapter string
}

func NewXportCfg() XportCfg {
	return XportCfg{
		Adapter: "hci0",
	}
}

// Exported on each advertisement object; BlueZ calls it when it drops the
// advertisement on its own.
type advObj struct {
	tok xport.AdvToken
}

func (o *advObj) Release() *dbus.Error {
	log.Debugf("bluez: advertisement %d released by daemon", o.tok)
	return nil
}

type BluezRadio struct {
	cfg XportCfg

	mtx     sync.Mutex
	conn    *dbus.Conn
	adapter dbus.BusObject
	nextTok xport.AdvToken

	// Registered or registering advertisements.
	paths map[xport.AdvToken]dbus.ObjectPath
}

func NewBluezRadio(cfg XportCfg) *BluezRadio {
	return &BluezRadio{
		cfg:   cfg,
		paths: map[xport.AdvToken]dbus.ObjectPath{},
	}
}

func (r *BluezRadio) Open() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.conn != nil {
		return bcxutil.NewAlreadyError("D-Bus connection already open")
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return bcxutil.FmtXportError("failed to connect to system bus: %s",
			err.Error())
	}

	r.conn = conn
	r.adapter = conn.Object(bluezService,
		dbus.ObjectPath("/org/bluez/"+r.cfg.Adapter))

	log.Debugf("bluez: using adapter %s", r.cfg.Adapter)
	return nil
}

func (r *BluezRadio) Close() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.conn == nil {
		return nil
	}

	for tok, path := range r.paths {
		r.unregister(tok, path)
	}

	// The system bus connection is shared; it is not closed here.
	r.conn = nil
	r.adapter = nil

	return nil
}

func (r *BluezRadio) adapterProp(name string) (dbus.Variant, error) {
	r.mtx.Lock()
	adapter := r.adapter
	r.mtx.Unlock()

	if adapter == nil {
		return dbus.Variant{}, bcxutil.NewXportError("D-Bus connection not open")
	}

	return adapter.GetProperty(adapterIface + "." + name)
}

func (r *BluezRadio) Present() bool {
	_, err := r.adapterProp("Address")
	return err == nil
}

func (r *BluezRadio) Enabled() bool {
	v, err := r.adapterProp("Powered")
	if err != nil {
		return false
	}

	powered, ok := v.Value().(bool)
	return ok && powered
}

func (r *BluezRadio) StartAdvertising(settings xport.AdvSettings,
	adv []byte, rsp []byte, cb xport.AdvCallback) (xport.AdvToken, error) {

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.conn == nil {
		return 0, bcxutil.NewXportError("D-Bus connection not open")
	}

	props, err := AdvProps(settings, adv, rsp)
	if err != nil {
		return 0, err
	}

	r.nextTok++
	tok := r.nextTok
	path := dbus.ObjectPath(fmt.Sprintf(advObjPathTemplate, tok))

	if _, err := prop.Export(r.conn, path, map[string]map[string]*prop.Prop{
		advIface: props,
	}); err != nil {
		return 0, bcxutil.FmtXportError("failed to export advertisement: %s",
			err.Error())
	}
	if err := r.conn.Export(&advObj{tok: tok}, path, advIface); err != nil {
		r.unexport(path)
		return 0, bcxutil.FmtXportError("failed to export advertisement: %s",
			err.Error())
	}

	r.paths[tok] = path

	call := r.adapter.Go(advMgrIface+".RegisterAdvertisement", 0,
		make(chan *dbus.Call, 1), path, map[string]interface{}{})

	go func() {
		<-call.Done
		status := AdvStatusFromErr(call.Err)
		if status != xport.ADV_STATUS_SUCCESS {
			log.Errorf("bluez: failed to register advertisement: %s",
				call.Err.Error())

			r.mtx.Lock()
			if r.paths[tok] == path {
				delete(r.paths, tok)
				r.unexport(path)
			}
			r.mtx.Unlock()
		} else {
			log.Debugf("bluez: registered %s", path)
		}

		cb(status)
	}()

	return tok, nil
}

func (r *BluezRadio) StopAdvertising(tok xport.AdvToken) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	path, ok := r.paths[tok]
	if !ok {
		return nil
	}

	return r.unregister(tok, path)
}

func (r *BluezRadio) unregister(tok xport.AdvToken, path dbus.ObjectPath) error {
	delete(r.paths, tok)
	defer r.unexport(path)

	err := r.adapter.Call(advMgrIface+".UnregisterAdvertisement", 0,
		path).Err
	if err != nil {
		if e, ok := err.(dbus.Error); ok &&
			e.Name == "org.bluez.Error.DoesNotExist" {

			return nil
		}
		return bcxutil.FmtXportError("failed to unregister advertisement: %s",
			err.Error())
	}

	log.Debugf("bluez: unregistered %s", path)
	return nil
}

func (r *BluezRadio) unexport(path dbus.ObjectPath) {
	r.conn.Export(nil, path, advIface)
	r.conn.Export(nil, path, propsIface)
}

// AdvStatusFromErr maps a RegisterAdvertisement reply to a start status.
func AdvStatusFromErr(err error) int {
	if err == nil {
		return xport.ADV_STATUS_SUCCESS
	}

	e, ok := err.(dbus.Error)
	if !ok {
		return xport.ADV_FAILED_INTERNAL_ERROR
	}

	switch e.Name {
	case "org.bluez.Error.AlreadyExists":
		return xport.ADV_FAILED_ALREADY_STARTED
	case "org.bluez.Error.InvalidLength":
		return xport.ADV_FAILED_DATA_TOO_LARGE
	case "org.bluez.Error.NotPermitted":
		return xport.ADV_FAILED_TOO_MANY_ADVERTISERS
	case "org.bluez.Error.NotSupported":
		return xport.ADV_FAILED_FEATURE_UNSUPPORTED
	default:
		return xport.ADV_FAILED_INTERNAL_ERROR
	}
}
