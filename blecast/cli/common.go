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

package cli

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/advertiser"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/company"
	"mynewt.apache.org/blecast/bcxact/xport"
	"mynewt.apache.org/blecast/blecast/bcutil"
	"mynewt.apache.org/blecast/blecast/config"
)

const closeWait = time.Second

var globalRadio xport.Radio
var globalPerms xport.PermOracle
var globalCtlr *advertiser.Controller
var globalRegistry *company.Registry

var onExit func()

func BcSetOnExit(fn func()) {
	onExit = fn
}

func bcUsage(cmd *cobra.Command, err error) {
	if err != nil {
		if nerr, ok := err.(*util.NewtError); ok {
			log.Debugf("%s", nerr.StackTrace)
			fmt.Fprintf(os.Stderr, "Error: %s\n", nerr.Text)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}
	}

	if cmd != nil {
		fmt.Printf("\n")
		fmt.Printf("%s - ", cmd.Name())
		cmd.Help()
	}

	if onExit != nil {
		onExit()
	}
	os.Exit(1)
}

func prefMgr() *config.PrefMgr {
	return config.GlobalPrefMgr()
}

func broadcastSource() *config.BroadcastSource {
	return config.NewBroadcastSource(prefMgr())
}

func GetRegistry() (*company.Registry, error) {
	if globalRegistry != nil {
		return globalRegistry, nil
	}

	if bcutil.CompaniesPath == "" {
		globalRegistry = company.Default()
		return globalRegistry, nil
	}

	reg, err := company.LoadYAML(bcutil.CompaniesPath)
	if err != nil {
		return nil, util.ChildNewtError(err)
	}

	globalRegistry = reg
	return reg, nil
}

// GetRadio opens the configured radio.  A radio that fails to open is still
// returned; the advertiser reports it as disabled.
func GetRadio() (xport.Radio, xport.PermOracle, error) {
	if globalRadio != nil {
		return globalRadio, globalPerms, nil
	}

	rc, err := config.ParseRadioString(
		config.RadioString(bcutil.RadioString, prefMgr()))
	if err != nil {
		return nil, nil, err
	}

	r, perms := config.BuildRadio(rc)
	if err := r.Open(); err != nil {
		if bcxutil.IsAlready(err) {
			log.Debugf("radio %s already open", rc.String())
		} else {
			log.Warnf("Failed to open radio (%s): %s", rc.String(),
				err.Error())
		}
	}

	globalRadio = r
	globalPerms = perms

	return r, perms, nil
}

// GetController builds the process's advertiser.  fg may be nil.
func GetController(fg adv.Foreground) (*advertiser.Controller, error) {
	if globalCtlr != nil {
		return globalCtlr, nil
	}

	r, perms, err := GetRadio()
	if err != nil {
		return nil, err
	}

	reg, err := GetRegistry()
	if err != nil {
		return nil, err
	}

	params := advertiser.NewControllerParams()
	params.Radio = r
	params.Source = broadcastSource()
	params.Perms = perms
	params.Fg = fg
	params.Companies = reg
	params.Cfg, err = bcutil.AdvCfg()
	if err != nil {
		return nil, err
	}

	c, err := advertiser.NewController(params)
	if err != nil {
		return nil, util.ChildNewtError(err)
	}

	if ok, msg := c.Compatibility(); !ok {
		log.Warnf("%s", msg)
	}
	if missing := xport.MissingPerms(perms, xport.PERM_ADVERTISE,
		xport.PERM_SCAN); len(missing) > 0 {

		log.Warnf("Missing permissions: %v (run as root for raw HCI access)",
			missing)
	}

	globalCtlr = c
	return c, nil
}

// CloseAll stops advertising and releases the radio.
func CloseAll() {
	if globalCtlr != nil {
		if err := globalCtlr.Close(); err != nil {
			log.Debugf("closing advertiser: %s", err.Error())
		}

		// Let the final events reach the terminal.
		select {
		case <-globalCtlr.Done():
		case <-time.After(closeWait):
			log.Debugf("advertiser events still pending at exit")
		}
		globalCtlr = nil
	}

	if globalRadio != nil {
		globalRadio.Close()
		globalRadio = nil
	}
}
