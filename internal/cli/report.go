// report.go
//
// Emits archived run summaries as JSON lines for downstream tooling.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"main/histstore"
)

var reportLimit int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print archived run summaries as JSON",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportLimit, "limit", 20, "maximum runs to print, newest first")
}

func runReport(cmd *cobra.Command, args []string) error {
	path := viper.GetString("db.path")
	if path == "" {
		return fmt.Errorf("report requires --db (or db.path in config)")
	}

	store, err := histstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(reportLimit)
	if err != nil {
		return err
	}

	for _, run := range runs {
		raw, err := run.Metrics.Report(run.Name).JSON()
		if err != nil {
			return fmt.Errorf("encode run %d: %w", run.ID, err)
		}
		fmt.Fprintln(os.Stdout, string(raw))
	}
	return nil
}
