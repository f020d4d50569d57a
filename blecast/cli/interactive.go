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
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/abiosoft/ishell.v2"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/advertiser"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
	"mynewt.apache.org/blecast/blecast/bcutil"
	"mynewt.apache.org/blecast/blecast/config"
)

type shellCtx struct {
	ctlr *advertiser.Controller
	fg   *countdown
}

func (sc *shellCtx) startCmd(c *ishell.Context) {
	if err := sc.ctlr.Start(); err != nil {
		c.Println("Error:", err)
	}
}

func (sc *shellCtx) stopCmd(c *ishell.Context) {
	if err := sc.ctlr.Stop(); err != nil {
		c.Println("Error:", err)
	}
}

func (sc *shellCtx) update(c *ishell.Context) {
	// Blocks for the settle delay; run it off the shell goroutine.
	go func() {
		if err := sc.ctlr.UpdateConfig(); err != nil {
			c.Println("Error:", err)
		}
	}()
}

func (sc *shellCtx) updateCmd(c *ishell.Context) {
	sc.update(c)
}

func (sc *shellCtx) statusCmd(c *ishell.Context) {
	c.Println("state:", sc.ctlr.State().String())
	if secs := sc.fg.elapsed(); secs >= 0 {
		c.Printf("elapsed: %ds of %s\n", secs, bcutil.MaxDuration)
	}
}

func (sc *shellCtx) showCmd(c *ishell.Context) {
	bc, err := broadcastSource().BroadcastConfig()
	if err != nil {
		c.Println("Error:", err)
		return
	}

	for _, row := range configRows(bc) {
		c.Printf("  %-8s %s\n", row[0], row[1])
	}
	if err := cfgcheck.ValidateAll(bc); err != nil {
		c.Println("  (invalid:", err.Error()+")")
	}
}

// Changing the configuration restarts a running broadcast.
func (sc *shellCtx) setCmd(c *ishell.Context) {
	if len(c.Args) == 0 {
		c.Println(c.HelpText())
		return
	}

	vals := map[string]interface{}{}
	for _, arg := range c.Args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 || !isSettableKey(kv[0]) || kv[0] == config.PREF_RADIO {
			c.Println("Invalid setting:", arg)
			return
		}
		if err := checkPrefVal(kv[0], kv[1]); err != nil {
			c.Println("Error:", err)
			return
		}
		if kv[0] == config.PREF_MAC {
			kv[1] = cfgcheck.FormatMac(kv[1])
		}
		vals[kv[0]] = kv[1]
	}

	if err := prefMgr().SetMulti(vals); err != nil {
		c.Println("Error:", err)
		return
	}
	sc.update(c)
}

func (sc *shellCtx) historyCmd(c *ishell.Context) {
	entries, err := history().List()
	if err != nil {
		c.Println("Error:", err)
		return
	}

	writeHistory(os.Stdout, entries)
}

func (sc *shellCtx) applyCmd(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println(c.HelpText())
		return
	}

	if err := history().Apply(c.Args[0], broadcastSource()); err != nil {
		c.Println("Error:", err)
		return
	}
	sc.update(c)
}

func (sc *shellCtx) saveCmd(c *ishell.Context) {
	if _, err := history().SaveCurrent(broadcastSource()); err != nil {
		c.Println("Error:", err)
	}
}

func startInteractive(cmd *cobra.Command, args []string) {
	fg := newCountdown(os.Stdout)
	fg.quiet = true

	ctlr, err := GetController(fg)
	if err != nil {
		bcUsage(nil, err)
	}
	sc := &shellCtx{ctlr: ctlr, fg: fg}

	// by default, new shell includes 'exit', 'help' and 'clear' commands.
	shell := ishell.New()
	shell.SetPrompt("> ")

	n := NewNotifier(os.Stdout)
	sub := ctlr.Bus().Subscribe(func(e adv.Event) {
		n.NotifyEvent(e)
	})
	defer ctlr.Bus().Unsubscribe(sub)

	shell.Println()
	shell.Println(" " + bcutil.ToolInfo.LongName + " shell")
	shell.Println("	Radio: ", config.RadioString(bcutil.RadioString, prefMgr()))
	shell.Println()

	shell.AddCmd(&ishell.Cmd{
		Name: "start",
		Help: "Start advertising the current configuration",
		Func: sc.startCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "stop",
		Help: "Stop advertising",
		Func: sc.stopCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "update",
		Help: "Restart advertising with the stored configuration",
		Func: sc.updateCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "status",
		Help: "Show the advertiser state",
		Func: sc.statusCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "show",
		Help: "Show the broadcast configuration",
		Func: sc.showCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "set",
		Help: "Change the configuration: set mac=v data=v rssi=v company=v",
		Func: sc.setCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "history",
		Help: "List remembered devices",
		Func: sc.historyCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "apply",
		Help: "Broadcast a remembered device: apply <address>",
		Func: sc.applyCmd,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "save",
		Help: "Remember the current configuration",
		Func: sc.saveCmd,
	})

	shell.Run()
	shell.Close()

	if err := ctlr.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
	}
}

func interactiveCmd() *cobra.Command {
	shellCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run " + bcutil.ToolInfo.ShortName + " interactive mode",
		Run:   startInteractive,
	}

	return shellCmd
}
