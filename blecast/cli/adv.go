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

	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
)

var advQuiet bool

// How long to wait for the event that explains a refused start.
const advRefusalWait = 100 * time.Millisecond

// Prints events until the session ends.  Returns true if it ended normally.
func followSession(ch <-chan adv.Event, n *Notifier) bool {
	for e := range ch {
		n.NotifyEvent(e)
		if e.Type == adv.EVENT_STOPPED {
			return true
		}
		if e.IsFailure() {
			return false
		}
	}

	return false
}

func advRunCmd(cmd *cobra.Command, args []string) {
	fg := newCountdown(os.Stdout)
	fg.quiet = advQuiet

	c, err := GetController(fg)
	if err != nil {
		bcUsage(nil, err)
	}

	sub, ch := c.Bus().SubscribeChan(16)
	defer c.Bus().Unsubscribe(sub)

	n := NewNotifier(os.Stdout)

	if err := c.Start(); err != nil {
		select {
		case e := <-ch:
			n.NotifyEvent(e)
		case <-time.After(advRefusalWait):
			if !bcxutil.IsPrecondition(err) {
				bcUsage(nil, util.ChildNewtError(err))
			}
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}
		if onExit != nil {
			onExit()
		}
		os.Exit(1)
	}

	if !followSession(ch, n) {
		if onExit != nil {
			onExit()
		}
		os.Exit(1)
	}
}

func advStatusCmd(cmd *cobra.Command, args []string) {
	src := broadcastSource()

	bc, err := src.BroadcastConfig()
	if err != nil {
		bcUsage(nil, util.ChildNewtError(err))
	}

	fmt.Printf("enabled:  %t\n", src.Enabled())
	fmt.Printf("address:  %s\n", bc.TargetAddr)
	fmt.Printf("data:     %s\n", bc.PayloadHex)
	fmt.Printf("rssi:     %s\n", bc.SignalLevel)
	if bc.CompanyLabel != "" {
		fmt.Printf("company:  %s\n", bc.CompanyLabel)
	}

	if err := cfgcheck.ValidateAll(bc); err != nil {
		fmt.Printf("config:   invalid (%s)\n", err.Error())
	} else {
		fmt.Printf("config:   valid\n")
	}
}

func advCmd() *cobra.Command {
	advCmd := &cobra.Command{
		Use:   "adv",
		Short: "Broadcast the configured advertisement",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Advertise until stopped or the session times out",
		Example: "  blecast adv run\n" +
			"  blecast adv run --max-duration 1m",
		Run: advRunCmd,
	}
	runCmd.PersistentFlags().BoolVarP(&advQuiet, "quiet", "q", false,
		"don't show the countdown")
	advCmd.AddCommand(runCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether advertising is enabled and what it broadcasts",
		Run:   advStatusCmd,
	}
	advCmd.AddCommand(statusCmd)

	return advCmd
}
