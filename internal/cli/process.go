// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/digitallib/kramerius-go/kramerius"
)

var (
	processesState      string
	processesResultSize int
)

var getProcessCmd = &cobra.Command{
	Use:   "get-process <id>",
	Short: "Print one process with its batch as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		detail, err := client.Processing.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	},
}

var processesCmd = &cobra.Command{
	Use:   "processes",
	Short: "List process batches as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		list, err := client.Processing.Batches(
			cmd.Context(), kramerius.ProcessState(processesState), processesResultSize)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "UUID", "Type", "Name", "State", "Planned", "Started", "Finished"})
		for _, entry := range list.Batches {
			for _, p := range entry.Processes {
				t.AppendRow(table.Row{
					p.ID, p.UUID, p.Defid, p.Name, p.State,
					formatProcessTime(p.Planned),
					formatProcessTime(p.Started),
					formatProcessTime(p.Finished),
				})
			}
		}
		t.AppendFooter(table.Row{"", "", "", "", "", "", "total batches", list.TotalSize})
		t.Render()
		return nil
	},
}

func formatProcessTime(t *kramerius.ProcessTime) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.DateTime)
}

func init() {
	processesCmd.Flags().StringVar(&processesState, "state", "", "filter by batch state (PLANNED, RUNNING, ...)")
	processesCmd.Flags().IntVar(&processesResultSize, "result-size", 20, "number of batches to list")

	rootCmd.AddCommand(getProcessCmd, processesCmd)
}
