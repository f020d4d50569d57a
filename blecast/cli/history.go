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
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/blecast/config"
)

var historyFormat string
var historyOutput string

func writeHistory(w io.Writer, entries []config.HistoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ADDRESS\tRSSI\tCOMPANY\tTIME\tDATA\n")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			e.Address, e.Rssi, e.Company, e.Time, e.Data)
	}
	tw.Flush()
}

func history() *config.History {
	return config.NewHistory(prefMgr())
}

func historyShowCmd(cmd *cobra.Command, args []string) {
	entries, err := history().List()
	if err != nil {
		bcUsage(nil, err)
	}

	if len(entries) == 0 {
		fmt.Printf("No devices in history\n")
		return
	}
	writeHistory(os.Stdout, entries)
}

func historyApplyCmd(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		bcUsage(cmd, util.NewNewtError("Must specify exactly one address"))
	}

	if err := history().Apply(args[0], broadcastSource()); err != nil {
		bcUsage(nil, err)
	}
}

func historyDeleteCmd(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		bcUsage(cmd, util.NewNewtError("Must specify at least one address"))
	}

	h := history()
	for _, addr := range args {
		if err := h.Delete(addr); err != nil {
			bcUsage(nil, err)
		}
	}
}

func historySaveCmd(cmd *cobra.Command, args []string) {
	added, err := history().SaveCurrent(broadcastSource())
	if err != nil {
		bcUsage(nil, err)
	}

	if added {
		fmt.Printf("Saved current configuration to history\n")
	} else {
		fmt.Printf("Updated history entry for current configuration\n")
	}
}

func historyExportCmd(cmd *cobra.Command, args []string) {
	w := io.Writer(os.Stdout)
	if historyOutput != "" {
		f, err := os.Create(historyOutput)
		if err != nil {
			bcUsage(nil, util.ChildNewtError(err))
		}
		defer f.Close()
		w = f
	}

	if err := history().Export(w, historyFormat); err != nil {
		bcUsage(nil, err)
	}
}

func historyImportCmd(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		bcUsage(cmd, util.NewNewtError("Must specify exactly one file"))
	}

	f, err := os.Open(args[0])
	if err != nil {
		bcUsage(nil, util.ChildNewtError(err))
	}
	defer f.Close()

	entries, err := config.Import(f, historyFormat)
	if err != nil {
		bcUsage(nil, err)
	}

	h := history()
	numAdded := 0
	for _, e := range entries {
		added, err := h.Upsert(e)
		if err != nil {
			bcUsage(nil, err)
		}
		if added {
			numAdded++
		}
	}

	fmt.Printf("Imported %d entries (%d new)\n", len(entries), numAdded)
}

func historyCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage remembered devices",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	historyCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List remembered devices",
		Run:   historyShowCmd,
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:     "apply <address>",
		Short:   "Make a remembered device the broadcast configuration",
		Example: "  blecast history apply 18:BC:5A:10:60:4D",
		Run:     historyApplyCmd,
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:     "delete <address> [address...]",
		Aliases: []string{"del"},
		Short:   "Forget remembered devices",
		Run:     historyDeleteCmd,
	})

	historyCmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Remember the current broadcast configuration",
		Run:   historySaveCmd,
	})

	exportCmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the history as JSON or CBOR",
		Example: "  blecast history export -f cbor -o devices.cbor",
		Run:     historyExportCmd,
	}
	exportCmd.PersistentFlags().StringVarP(&historyOutput, "output", "o", "",
		"file to write (default stdout)")
	historyCmd.AddCommand(exportCmd)

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge an exported history",
		Run:   historyImportCmd,
	}
	historyCmd.AddCommand(importCmd)

	historyCmd.PersistentFlags().StringVarP(&historyFormat, "format", "f",
		config.EXPORT_JSON, "export format (json or cbor)")

	return historyCmd
}
