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
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/bll"
	"mynewt.apache.org/blecast/bcxact/bledefs"
	"mynewt.apache.org/blecast/bcxact/company"
	"mynewt.apache.org/blecast/bcxact/scan"
)

func main() {
	bcxutil.SetLogLevel(log.InfoLevel)

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <address>\n", os.Args[0])
		os.Exit(1)
	}

	addr, err := bledefs.ParseBleAddr(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}

	// Initialize the HCI radio.
	r := bll.NewBllRadio(bll.NewXportCfg())
	if err := r.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "error opening radio: %s\n", err.Error())
		os.Exit(1)
	}
	defer r.Close()

	scanner := bll.NewBllScanner(r)
	reg := company.Default()

	for {
		c, err := scanner.Scan(context.Background(), scan.NewCfg(addr))
		if err != nil {
			if bcxutil.IsScanTmo(err) {
				fmt.Printf("%s not seen; retrying\n", addr.String())
				continue
			}
			fmt.Fprintf(os.Stderr, "error scanning: %s\n", err.Error())
			os.Exit(1)
		}

		fmt.Printf("discovered: %s\n", c.String())
		if md := adfield.ExtractMfgData(c.Data); md != nil {
			fmt.Printf("  company: %s\n", reg.Name(md.CompanyId))
		}
	}
}
