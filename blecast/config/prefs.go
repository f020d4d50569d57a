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
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/blecast/bcutil"
)

// Preference keys.
const (
	PREF_MAC     = "mac"
	PREF_DATA    = "data"
	PREF_RSSI    = "rssi"
	PREF_COMPANY = "company"
	PREF_ENABLED = "enabled"
	PREF_HISTORY = "history"
	PREF_RADIO   = "radio"
)

var prefKeys = []string{
	PREF_MAC,
	PREF_DATA,
	PREF_RSSI,
	PREF_COMPANY,
	PREF_ENABLED,
	PREF_HISTORY,
	PREF_RADIO,
}

func IsPrefKey(key string) bool {
	for _, k := range prefKeys {
		if k == key {
			return true
		}
	}

	return false
}

// PrefMgr is a small persistent key-value store.  The whole set is kept in
// memory and rewritten to disk on every change.
type PrefMgr struct {
	mtx      sync.Mutex
	filename string
	vals     map[string]interface{}
}

func prefsFilename() (string, error) {
	dir, err := homedir.Dir()
	if err != nil {
		return "", util.NewNewtError(err.Error())
	}

	return filepath.Join(dir, bcutil.ToolInfo.CfgFilename), nil
}

func NewPrefMgr(filename string) (*PrefMgr, error) {
	pm := &PrefMgr{
		filename: filename,
		vals:     map[string]interface{}{},
	}

	if err := pm.load(); err != nil {
		return nil, err
	}

	return pm, nil
}

func (pm *PrefMgr) Filename() string {
	return pm.filename
}

func (pm *PrefMgr) load() error {
	log.Debugf("Reading preferences from %s", pm.filename)

	blob, err := ioutil.ReadFile(pm.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return util.ChildNewtError(err)
	}

	if err := json.Unmarshal(blob, &pm.vals); err != nil {
		return util.FmtNewtError("error reading preferences (%s): %s",
			pm.filename, err.Error())
	}
	if pm.vals == nil {
		pm.vals = map[string]interface{}{}
	}

	return nil
}

func (pm *PrefMgr) save() error {
	b, err := json.MarshalIndent(pm.vals, "", "    ")
	if err != nil {
		return util.NewNewtError(err.Error())
	}

	if err := ioutil.WriteFile(pm.filename, b, 0644); err != nil {
		return util.ChildNewtError(errors.Wrapf(err,
			"failed to save preferences"))
	}

	return nil
}

func (pm *PrefMgr) Get(key string) (interface{}, bool) {
	pm.mtx.Lock()
	defer pm.mtx.Unlock()

	v, ok := pm.vals[key]
	return v, ok
}

func (pm *PrefMgr) GetString(key string, dflt string) string {
	v, ok := pm.Get(key)
	if !ok {
		return dflt
	}

	return cast.ToString(v)
}

func (pm *PrefMgr) GetBool(key string) bool {
	v, _ := pm.Get(key)
	return cast.ToBool(v)
}

// GetObj decodes a structured value into obj.  A missing key leaves obj
// untouched.
func (pm *PrefMgr) GetObj(key string, obj interface{}) error {
	v, ok := pm.Get(key)
	if !ok {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode preference %s", key)
	}
	if err := json.Unmarshal(b, obj); err != nil {
		return errors.Wrapf(err, "malformed preference %s", key)
	}

	return nil
}

func (pm *PrefMgr) Set(key string, val interface{}) error {
	return pm.SetMulti(map[string]interface{}{key: val})
}

// SetMulti applies all the given values and saves once.
func (pm *PrefMgr) SetMulti(vals map[string]interface{}) error {
	pm.mtx.Lock()
	defer pm.mtx.Unlock()

	for k, v := range vals {
		pm.vals[k] = v
	}

	return pm.save()
}

func (pm *PrefMgr) Delete(key string) error {
	pm.mtx.Lock()
	defer pm.mtx.Unlock()

	if _, ok := pm.vals[key]; !ok {
		return util.FmtNewtError("preference \"%s\" is not set", key)
	}
	delete(pm.vals, key)

	return pm.save()
}

func (pm *PrefMgr) Keys() []string {
	pm.mtx.Lock()
	defer pm.mtx.Unlock()

	keys := make([]string, 0, len(pm.vals))
	for k := range pm.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

var globalPrefMgr *PrefMgr

func GlobalPrefMgr() *PrefMgr {
	if globalPrefMgr == nil {
		panic("preference manager not initialized")
	}
	return globalPrefMgr
}

func InitGlobalPrefMgr() error {
	if globalPrefMgr != nil {
		return util.NewNewtError("preference manager initialized twice")
	}

	filename, err := prefsFilename()
	if err != nil {
		return err
	}

	globalPrefMgr, err = NewPrefMgr(filename)
	if err != nil {
		return err
	}

	return nil
}
