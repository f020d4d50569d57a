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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/company"
)

func decodeReport(buf []byte, reg *company.Registry) string {
	var sb strings.Builder

	f := adfield.ParseFields(buf)
	used := 0
	for _, s := range f.Structs {
		used += 1 + s.Len()
		fmt.Fprintf(&sb, "  %-22s len=%-3d %s\n",
			bledefs.BleAdTypeToString(s.Type), len(s.Value),
			bcxutil.HexString(s.Value))
	}
	if used < len(buf) {
		fmt.Fprintf(&sb, "  (%d trailing bytes ignored)\n", len(buf)-used)
	}

	if f.Flags != nil {
		fmt.Fprintf(&sb, "flags:        0x%02x (%s)\n", *f.Flags,
			bledefs.BleAdvFlagsString(*f.Flags))
	}
	for _, u := range f.Uuids16 {
		fmt.Fprintf(&sb, "service uuid: %s\n", u.Uuid128String())
	}
	if f.Name != nil {
		fmt.Fprintf(&sb, "name:         %q\n", *f.Name)
	}
	if f.TxPwrLvl != nil {
		fmt.Fprintf(&sb, "tx power:     %d dBm\n", *f.TxPwrLvl)
	}
	if f.MfgData != nil {
		fmt.Fprintf(&sb, "company:      0x%04X (%s)\n", f.MfgData.CompanyId,
			reg.Name(f.MfgData.CompanyId))
		fmt.Fprintf(&sb, "mfg data:     %s (%d bytes)\n",
			bcxutil.HexString(f.MfgData.Payload), len(f.MfgData.Payload))
	}

	return sb.String()
}

func decodeRunCmd(cmd *cobra.Command, args []string) {
	var s string
	if len(args) > 0 {
		s = strings.Join(args, "")
	} else {
		bc, err := broadcastSource().BroadcastConfig()
		if err != nil {
			bcUsage(nil, util.ChildNewtError(err))
		}
		s = bc.PayloadHex
	}

	buf, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		bcUsage(cmd, util.FmtNewtError("invalid hex string: %s", s))
	}

	reg, err := GetRegistry()
	if err != nil {
		bcUsage(nil, err)
	}

	fmt.Print(decodeReport(buf, reg))
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex-data]",
		Short: "Decode advertising data (defaults to the configured payload)",
		Example: "  blecast decode " +
			"02011A17FF0002317D89030000000F0295699D011000000003FE3C",
		Run: decodeRunCmd,
	}
}

