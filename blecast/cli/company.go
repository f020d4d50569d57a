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
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/company"
)

func parseCompanyId(s string) (uint16, error) {
	id, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, util.FmtNewtError("invalid company id: %s", s)
	}

	return uint16(id), nil
}

// Entries whose name contains substr, case-insensitively, ordered by id.
func companyMatches(reg *company.Registry, substr string) []company.Entry {
	substr = strings.ToLower(substr)

	var matches []company.Entry
	for _, e := range reg.Entries() {
		if strings.Contains(strings.ToLower(e.Name), substr) {
			matches = append(matches, e)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Id < matches[j].Id
	})

	return matches
}

func companyLookupCmd(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		bcUsage(cmd, util.NewNewtError("Must specify at least one id"))
	}

	reg, err := GetRegistry()
	if err != nil {
		bcUsage(nil, err)
	}

	for _, arg := range args {
		id, err := parseCompanyId(arg)
		if err != nil {
			bcUsage(cmd, err)
		}
		fmt.Printf("0x%04X %s\n", id, reg.Name(id))
	}
}

func companyListCmd(cmd *cobra.Command, args []string) {
	reg, err := GetRegistry()
	if err != nil {
		bcUsage(nil, err)
	}

	substr := ""
	if len(args) > 0 {
		substr = strings.Join(args, " ")
	}

	for _, e := range companyMatches(reg, substr) {
		fmt.Printf("0x%04X %s\n", e.Id, e.Name)
	}
}

func companyCmd() *cobra.Command {
	companyCmd := &cobra.Command{
		Use:   "company",
		Short: "Look up Bluetooth SIG company identifiers",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	lookupCmd := &cobra.Command{
		Use:     "lookup <id> [id...]",
		Short:   "Show the company name for each id",
		Example: "  blecast company lookup 0x0059 76",
		Run:     companyLookupCmd,
	}
	companyCmd.AddCommand(lookupCmd)

	listCmd := &cobra.Command{
		Use:     "list [substring]",
		Short:   "List known companies, optionally filtered by name",
		Example: "  blecast company list nordic",
		Run:     companyListCmd,
	}
	companyCmd.AddCommand(listCmd)

	return companyCmd
}
