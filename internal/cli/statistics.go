// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/digitallib/kramerius-go/kramerius"
)

var (
	statisticsRows       int
	statisticsFacet      bool
	statisticsFacetField string
)

var searchStatisticsCmd = &cobra.Command{
	Use:   "search-statistics <query>",
	Short: "Query the access-statistics index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		params := kramerius.SearchParams{
			Query:      args[0],
			Rows:       &statisticsRows,
			Facet:      statisticsFacet,
			FacetField: statisticsFacetField,
		}
		result, err := client.Statistics.Search(cmd.Context(), params)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	searchStatisticsCmd.Flags().IntVar(&statisticsRows, "rows", 10, "documents to return")
	searchStatisticsCmd.Flags().BoolVar(&statisticsFacet, "facet", false, "enable faceting")
	searchStatisticsCmd.Flags().StringVar(&statisticsFacetField, "facet-field", "", "field to facet on")

	rootCmd.AddCommand(searchStatisticsCmd)
}
