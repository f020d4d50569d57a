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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/scan"
	"mynewt.apache.org/blecast/blecast/bcutil"
	"mynewt.apache.org/blecast/blecast/config"
)

var scanApply bool

func scanRunCmd(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		bcUsage(cmd, util.NewNewtError("Must specify exactly one address"))
	}

	addr, err := bledefs.ParseBleAddr(args[0])
	if err != nil {
		bcUsage(cmd, util.ChildNewtError(err))
	}

	r, _, err := GetRadio()
	if err != nil {
		bcUsage(nil, err)
	}
	if !r.Enabled() {
		bcUsage(nil, util.NewNewtError("radio is not available"))
	}

	scanner, err := config.BuildScanner(r)
	if err != nil {
		bcUsage(nil, err)
	}

	cfg := scan.NewCfg(addr)
	cfg.Timeout = bcutil.ScanTimeout

	fmt.Printf("Scanning for %s...\n", addr.String())
	c, err := scanner.Scan(context.Background(), cfg)
	if err != nil {
		if bcxutil.IsScanTmo(err) {
			bcUsage(nil, util.FmtNewtError("%s not seen within %s",
				addr.String(), cfg.Timeout))
		}
		bcUsage(nil, util.ChildNewtError(err))
	}

	reg, err := GetRegistry()
	if err != nil {
		bcUsage(nil, err)
	}

	entry := config.EntryFromCapture(c, reg)
	fmt.Printf("%s\n", c.String())
	if entry.Company != "" {
		fmt.Printf("company: %s\n", entry.Company)
	}

	h := config.NewHistory(prefMgr())
	added, err := h.Upsert(entry)
	if err != nil {
		bcUsage(nil, err)
	}
	if added {
		fmt.Printf("Added %s to history\n", entry.Address)
	} else {
		fmt.Printf("Updated %s in history\n", entry.Address)
	}

	if scanApply {
		if err := h.Apply(entry.Address, broadcastSource()); err != nil {
			bcUsage(nil, err)
		}
		fmt.Printf("Broadcast configuration now targets %s\n", entry.Address)
	}
}

func scanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan <address>",
		Short: "Capture the advertisement of a nearby device",
		Example: "  blecast scan 18:BC:5A:10:60:4D\n" +
			"  blecast scan 18:BC:5A:10:60:4D --apply --scan-timeout 30s",
		Run: scanRunCmd,
	}

	scanCmd.PersistentFlags().BoolVar(&scanApply, "apply", false,
		"make the captured advertisement the broadcast configuration")

	return scanCmd
}
