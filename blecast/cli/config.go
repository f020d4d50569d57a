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
	"strings"

	"github.com/fatih/structs"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
	"mynewt.apache.org/blecast/blecast/bcutil"
	"mynewt.apache.org/blecast/blecast/config"
)

// Keys that "config set" and "config delete" accept.  The history and the
// enabled flag are managed by their own commands.
var settableKeys = []string{
	config.PREF_MAC,
	config.PREF_DATA,
	config.PREF_RSSI,
	config.PREF_COMPANY,
	config.PREF_RADIO,
}

func isSettableKey(key string) bool {
	for _, k := range settableKeys {
		if k == key {
			return true
		}
	}

	return false
}

// Key-value rows describing bc, keyed by preference name.
func configRows(bc adv.BroadcastConfig) [][2]string {
	var rows [][2]string
	for _, f := range structs.Fields(bc) {
		name := strings.Split(f.Tag("json"), ",")[0]
		if name == "" {
			name = f.Name()
		}
		rows = append(rows, [2]string{name, cast.ToString(f.Value())})
	}

	return rows
}

// Checks a single value the way it is checked when advertising starts.
func checkPrefVal(key string, val string) error {
	switch key {
	case config.PREF_MAC:
		if !cfgcheck.IsValidMac(val) {
			return util.FmtNewtError("invalid MAC address: %s", val)
		}
	case config.PREF_DATA:
		if !cfgcheck.IsValidPayload(val) {
			return util.FmtNewtError("invalid advertising data: %s", val)
		}
	case config.PREF_RSSI:
		if !cfgcheck.IsValidRssi(val) {
			return util.FmtNewtError("invalid RSSI: %s", val)
		}
	case config.PREF_RADIO:
		if _, err := config.ParseRadioString(val); err != nil {
			return err
		}
	}

	return nil
}

func configShowCmd(cmd *cobra.Command, args []string) {
	bc, err := broadcastSource().BroadcastConfig()
	if err != nil {
		bcUsage(nil, util.ChildNewtError(err))
	}

	pm := prefMgr()
	fmt.Printf("file: %s\n", pm.Filename())
	for _, row := range configRows(bc) {
		fmt.Printf("  %-8s %s\n", row[0], row[1])
	}
	fmt.Printf("  %-8s %s\n", config.PREF_RADIO,
		config.RadioString(bcutil.RadioString, pm))
	fmt.Printf("  %-8s %t\n", config.PREF_ENABLED, pm.GetBool(config.PREF_ENABLED))
}

func configSetCmd(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		bcUsage(cmd, util.NewNewtError("Must specify at least one key=value"))
	}

	vals := map[string]interface{}{}
	for _, arg := range args {
		// Values may themselves contain '=' and ',' (radio strings).
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			bcUsage(cmd, util.FmtNewtError("Expected key=value: %s", arg))
		}
		key, val := kv[0], kv[1]
		if !isSettableKey(key) {
			bcUsage(cmd, util.FmtNewtError("Invalid key: %s", key))
		}
		if err := checkPrefVal(key, val); err != nil {
			bcUsage(nil, err)
		}
		if key == config.PREF_MAC {
			val = cfgcheck.FormatMac(val)
		}
		vals[key] = val
	}

	if err := prefMgr().SetMulti(vals); err != nil {
		bcUsage(nil, err)
	}
}

func configDeleteCmd(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		bcUsage(cmd, util.NewNewtError("Must specify at least one key"))
	}

	for _, key := range args {
		if !isSettableKey(key) {
			bcUsage(cmd, util.FmtNewtError("Invalid key: %s", key))
		}
		if err := prefMgr().Delete(key); err != nil {
			bcUsage(nil, err)
		}
	}
}

func configValidateCmd(cmd *cobra.Command, args []string) {
	bc, err := broadcastSource().BroadcastConfig()
	if err != nil {
		bcUsage(nil, util.ChildNewtError(err))
	}

	if err := cfgcheck.ValidateAll(bc); err != nil {
		bcUsage(nil, util.ChildNewtError(err))
	}

	fmt.Printf("Configuration is valid\n")
}

func configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit the broadcast configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored configuration",
		Run:   configShowCmd,
	}
	configCmd.AddCommand(showCmd)

	setCmd := &cobra.Command{
		Use:   "set <key=value> [key=value...]",
		Short: "Set configuration values (" + strings.Join(settableKeys, ", ") + ")",
		Example: "  blecast config set mac=18:BC:5A:10:60:4D rssi=-60\n" +
			"  blecast config set radio=type=bluez,adapter=hci1",
		Run: configSetCmd,
	}
	configCmd.AddCommand(setCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <key> [key...]",
		Short: "Revert configuration values to their defaults",
		Run:   configDeleteCmd,
	}
	configCmd.AddCommand(deleteCmd)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the stored configuration",
		Run:   configValidateCmd,
	}
	configCmd.AddCommand(validateCmd)

	return configCmd
}
