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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/advertiser"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bll"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
	"mynewt.apache.org/blecast/bcxact/company"
)

// Serves a fixed configuration.
type staticSource struct {
	cfg adv.BroadcastConfig
}

func (s *staticSource) BroadcastConfig() (adv.BroadcastConfig, error) {
	return s.cfg, nil
}

func (s *staticSource) SetEnabled(enabled bool) error {
	return nil
}

func configExitHandler(c *advertiser.Controller, r *bll.BllRadio) {
	onExit := func() {
		c.Close()
		r.Close()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		for {
			s := <-sigChan
			switch s {
			case os.Interrupt, syscall.SIGTERM:
				onExit()
				os.Exit(0)

			case syscall.SIGQUIT:
				util.PrintStacks()
			}
		}
	}()
}

func main() {
	bcxutil.SetLogLevel(log.DebugLevel)

	flags := uint8(bledefs.BLE_ADV_F_DISC_GEN | bledefs.BLE_ADV_F_BREDR_UNSUP)
	name := "bcadv"
	payload, err := adfield.Encode(adfield.BuildFields(adfield.Fields{
		Flags: &flags,
		Name:  &name,
		MfgData: &adfield.MfgData{
			CompanyId: 0x0059,
			Payload:   []byte{0x01, 0x02, 0x03},
		},
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding advertisement: %s\n",
			err.Error())
		os.Exit(1)
	}

	// Initialize the HCI radio.
	r := bll.NewBllRadio(bll.NewXportCfg())
	if err := r.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "error opening radio: %s\n", err.Error())
		os.Exit(1)
	}
	defer r.Close()

	src := &staticSource{cfg: cfgcheck.DefaultConfig()}
	src.cfg.PayloadHex = bcxutil.HexString(payload)

	params := advertiser.NewControllerParams()
	params.Radio = r
	params.Source = src
	params.Perms = bll.RootPerms
	params.Companies = company.Default()
	params.Cfg.MaxDuration = 30 * time.Second

	c, err := advertiser.NewController(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error building advertiser: %s\n", err.Error())
		os.Exit(1)
	}
	defer c.Close()

	configExitHandler(c, r)

	// Restart each time the session times out.
	for {
		sub, ch := c.Bus().SubscribeChan(8)

		if err := c.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "error starting advertise: %s\n",
				err.Error())
			os.Exit(1)
		}

		for e := range ch {
			fmt.Printf("event: %s\n", e.String())
			if e.IsFailure() {
				os.Exit(1)
			}
			if e.Type == adv.EVENT_STOPPED {
				break
			}
		}

		c.Bus().Unsubscribe(sub)
	}
}
