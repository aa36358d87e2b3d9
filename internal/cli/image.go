// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	getImagePID      string
	getImagePidsFile string
)

var getImageCmd = &cobra.Command{
	Use:   "get-image <target-dir>",
	Short: "Download full-size page images into a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDir := args[0]
		pids, err := collectPIDs(getImagePID, getImagePidsFile)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		for _, pid := range pids {
			data, err := client.Items.GetImage(cmd.Context(), pid)
			if err != nil {
				return err
			}
			name := strings.TrimPrefix(pid, "uuid:") + ".jpg"
			path := filepath.Join(targetDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			rootLog.Info("image saved", zap.String("pid", pid), zap.String("path", path))
		}
		return nil
	},
}

func init() {
	getImageCmd.Flags().StringVar(&getImagePID, "pid", "", "object pid")
	getImageCmd.Flags().StringVar(&getImagePidsFile, "pids-file", "", "file with one pid per line")

	rootCmd.AddCommand(getImageCmd)
}
