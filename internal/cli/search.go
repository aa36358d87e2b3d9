// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitallib/kramerius-go/kramerius"
)

var (
	getDocumentPID      string
	getDocumentPidsFile string
	searchForFL         []string
)

var getDocumentCmd = &cobra.Command{
	Use:   "get-document",
	Short: "Print the index record of one or more objects as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pids, err := collectPIDs(getDocumentPID, getDocumentPidsFile)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, pid := range pids {
			doc, err := client.Search.GetDocument(cmd.Context(), pid)
			if err != nil {
				return err
			}
			if doc == nil {
				rootLog.Warn("document not found", zap.String("pid", pid))
				continue
			}
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		return nil
	},
}

var getNumFoundCmd = &cobra.Command{
	Use:   "get-num-found <query>",
	Short: "Print the total hit count of a search query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		num, err := client.Search.NumFound(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(num)
		return nil
	},
}

var searchForCmd = &cobra.Command{
	Use:   "search-for <query>",
	Short: "Stream every matching index record as JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		params := kramerius.SearchParams{Query: args[0]}
		for _, name := range searchForFL {
			params.FL = append(params.FL, kramerius.Field(name))
		}

		enc := json.NewEncoder(os.Stdout)
		return client.Search.Iterate(cmd.Context(), params, func(doc *kramerius.Document) error {
			return enc.Encode(doc)
		})
	},
}

func init() {
	getDocumentCmd.Flags().StringVar(&getDocumentPID, "pid", "", "object pid")
	getDocumentCmd.Flags().StringVar(&getDocumentPidsFile, "pids-file", "", "file with one pid per line")
	searchForCmd.Flags().StringSliceVar(&searchForFL, "fl", nil, "index fields to return (default all)")

	rootCmd.AddCommand(getDocumentCmd, getNumFoundCmd, searchForCmd)
}
