// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitallib/kramerius-go/kramerius"
)

// indexUpgradeMaxLevel is the deepest tree level the upgrade walks;
// pages live at most this far below their root.
const indexUpgradeMaxLevel = 5

var indexUpgradeCmd = &cobra.Command{
	Use:   "index-upgrade <indexer-version>",
	Short: "Reindex every object whose index record predates a version",
	Long: `index-upgrade walks the repository tree level by level, from roots
down to pages, searches for objects whose indexer_version differs
from the given one and plans an indexation process for each. Top
levels go first so parent records are fresh when children index.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := args[0]
		client, err := newClient()
		if err != nil {
			return err
		}
		runner := newProcessRunner(client)

		for level := 0; level <= indexUpgradeMaxLevel; level++ {
			query := fmt.Sprintf("%s:%d AND -%s:%q",
				kramerius.FieldLevel, level, kramerius.FieldIndexerVersion, version)

			var jobs []kramerius.ProcessParams
			err := client.Search.Iterate(cmd.Context(),
				kramerius.SearchParams{Query: query, FL: []kramerius.Field{kramerius.FieldPID}},
				func(doc *kramerius.Document) error {
					jobs = append(jobs, kramerius.IndexParams{
						PIDListParams: kramerius.PIDListParams{PID: doc.PID},
						Type:          kramerius.IndexationObject,
					})
					return nil
				})
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				continue
			}

			rootLog.Info("upgrading index level",
				zap.Int("level", level), zap.Int("objects", len(jobs)))
			if err := runner.Run(cmd.Context(), kramerius.ProcessTypeIndex, jobs); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexUpgradeCmd)
}
