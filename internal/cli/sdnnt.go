// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitallib/kramerius-go/kramerius"
)

var runSdnntSyncCmd = &cobra.Command{
	Use:   "run-sdnnt-sync",
	Short: "Plan an SDNNT register synchronization and wait for it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := newProcessRunner(client).Run(cmd.Context(), kramerius.ProcessTypeSdnntSync,
			[]kramerius.ProcessParams{nil}); err != nil {
			return err
		}
		ts, err := client.Sdnnt.SyncTimestamp(cmd.Context())
		if err != nil {
			return err
		}
		if ts != nil {
			fmt.Println("register fetched at", ts.Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	},
}

var getSdnntChangesCmd = &cobra.Command{
	Use:   "get-sdnnt-changes",
	Short: "Stream the SDNNT change feed as JSON lines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		return client.Sdnnt.IterateChanges(cmd.Context(), func(record kramerius.SdnntRecord) error {
			return enc.Encode(record)
		})
	},
}

func init() {
	rootCmd.AddCommand(runSdnntSyncCmd, getSdnntChangesCmd)
}
