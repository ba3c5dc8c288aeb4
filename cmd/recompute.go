package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shiftlog/recompute"
)

var recomputeDBPath string

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Re-derive lateness, overtime and worked minutes of all stored records",
	Long: `Re-derive the minute fields of every stored record from its clock fields.

Only derived fields whose value changes are written back; running the command
twice changes nothing the second time.`,
	Example: `
  shiftlog recompute
  shiftlog recompute --db ./attendance.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(recomputeDBPath)
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := recompute.Run(store)
		if err != nil {
			return err
		}
		logger.Info("recompute completed",
			zap.Int("records_checked", result.RecordsChecked),
			zap.Int("records_updated", result.RecordsUpdated),
		)
		fmt.Printf("Recompute completed. Days processed: %d, Records checked: %d, Records updated: %d\n",
			result.DaysProcessed,
			result.RecordsChecked,
			result.RecordsUpdated,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recomputeCmd)

	recomputeCmd.Flags().StringVar(&recomputeDBPath, "db", "", "Storage path (overrides storage.path)")
}
