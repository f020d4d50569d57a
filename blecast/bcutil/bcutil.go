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

package bcutil

import (
	"time"

	"github.com/pkg/errors"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/bledefs"
)

type ToolInfoType struct {
	ExeName       string
	ShortName     string
	LongName      string
	VersionString string
	CfgFilename   string
}

var ToolInfo ToolInfoType

// Global flag values.
var LogLevelStr string
var RadioString string
var CompaniesPath string
var MaxDuration time.Duration
var ScanTimeout time.Duration
var AdvModeStr string

// AdvCfg builds the advertiser policy from the global flags.
func AdvCfg() (adv.Cfg, error) {
	cfg := adv.NewCfg()
	if MaxDuration > 0 {
		cfg.MaxDuration = MaxDuration
	}

	if AdvModeStr != "" {
		mode, err := bledefs.BleAdvModeFromString(AdvModeStr)
		if err != nil {
			return cfg, util.ChildNewtError(err)
		}
		cfg.Settings.Mode = mode
	}

	return cfg, nil
}

func ErrorCausedBy(err error, cause error) bool {
	cur := err
	for {
		if cur == cause {
			return true
		}

		child := errors.Cause(cur)
		if child == cur {
			return false
		}

		cur = child
	}
}
