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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/scan"
	"mynewt.apache.org/blecast/blecast/bcutil"
)

var BlecastLogLevel log.Level

func Commands() *cobra.Command {
	bcCmd := &cobra.Command{
		Use:   bcutil.ToolInfo.ExeName,
		Short: bcutil.ToolInfo.ShortName + " broadcasts BLE advertisements",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			BlecastLogLevel, err = log.ParseLevel(bcutil.LogLevelStr)
			if err != nil {
				bcUsage(nil, util.ChildNewtError(err))
			}

			err = util.Init(BlecastLogLevel, "", util.VERBOSITY_DEFAULT)
			if err != nil {
				bcUsage(nil, err)
			}
			bcxutil.SetLogLevel(BlecastLogLevel)

			// Set cbgo log level if we're using macOS.
			OSSpecificInit()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	bcCmd.PersistentFlags().StringVarP(&bcutil.LogLevelStr, "loglevel", "l",
		"info", "log level to use")

	bcCmd.PersistentFlags().StringVar(&bcutil.RadioString, "radio", "",
		"radio key-value pairs (type=hci,hci=0 or type=bluez,adapter=hci0); "+
			"overrides the stored radio preference")

	bcCmd.PersistentFlags().StringVar(&bcutil.CompaniesPath, "companies", "",
		"YAML file of Bluetooth SIG company identifiers")

	bcCmd.PersistentFlags().DurationVar(&bcutil.MaxDuration, "max-duration",
		adv.DFLT_MAX_DURATION, "stop advertising automatically after this long")

	bcCmd.PersistentFlags().StringVar(&bcutil.AdvModeStr, "adv-mode",
		"balanced", "advertising interval (low_power, balanced, low_latency)")

	bcCmd.PersistentFlags().DurationVar(&bcutil.ScanTimeout, "scan-timeout",
		scan.DFLT_TIMEOUT, "give up scanning after this long")

	versCmd := &cobra.Command{
		Use:     "version",
		Short:   "Display the " + bcutil.ToolInfo.ShortName + " version number",
		Example: "  " + bcutil.ToolInfo.ExeName + " version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n",
				bcutil.ToolInfo.LongName,
				bcutil.ToolInfo.VersionString)
		},
	}
	bcCmd.AddCommand(versCmd)

	bcCmd.AddCommand(advCmd())
	bcCmd.AddCommand(decodeCmd())
	bcCmd.AddCommand(companyCmd())
	bcCmd.AddCommand(configCmd())
	bcCmd.AddCommand(scanCmd())
	bcCmd.AddCommand(historyCmd())
	bcCmd.AddCommand(interactiveCmd())

	return bcCmd
}
