// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"github.com/spf13/cobra"

	"github.com/digitallib/kramerius-go/kramerius"
)

var (
	licensePID      string
	licensePidsFile string
)

var addLicenseCmd = &cobra.Command{
	Use:   "add-license <license>",
	Short: "Add a license to objects via an admin process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLicenseProcess(cmd, kramerius.ProcessTypeAddLicense, args[0])
	},
}

var removeLicenseCmd = &cobra.Command{
	Use:   "remove-license <license>",
	Short: "Remove a license from objects via an admin process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLicenseProcess(cmd, kramerius.ProcessTypeRemoveLicense, args[0])
	},
}

func runLicenseProcess(cmd *cobra.Command, t kramerius.ProcessType, license string) error {
	pids, err := collectPIDs(licensePID, licensePidsFile)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	jobs := licenseJobs(t, license, pids)
	return newProcessRunner(client).Run(cmd.Context(), t, jobs)
}

// licenseJobs turns a pid list into process payloads, one per chunk.
func licenseJobs(t kramerius.ProcessType, license string, pids []string) []kramerius.ProcessParams {
	var jobs []kramerius.ProcessParams
	for _, chunk := range chunkPIDs(pids, maxPIDsPerChunk) {
		list := kramerius.PIDListParams{PIDList: chunk}
		if t == kramerius.ProcessTypeRemoveLicense {
			jobs = append(jobs, kramerius.RemoveLicenseParams{PIDListParams: list, License: license})
		} else {
			jobs = append(jobs, kramerius.AddLicenseParams{PIDListParams: list, License: license})
		}
	}
	return jobs
}

func init() {
	for _, cmd := range []*cobra.Command{addLicenseCmd, removeLicenseCmd} {
		cmd.Flags().StringVar(&licensePID, "pid", "", "object pid")
		cmd.Flags().StringVar(&licensePidsFile, "pids-file", "", "file with one pid per line")
	}

	rootCmd.AddCommand(addLicenseCmd, removeLicenseCmd)
}
