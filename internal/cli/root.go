// root.go
//
// hftbench — command-line harness around the latency primitives: ring
// and counter benchmarks, a thread-per-core latency baseline, the UDP
// market-feed loops, and report extraction from the run archive.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"main/histstore"
	"main/metrics"
)

var (
	cfgFile string
	verbose bool
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hftbench",
	Short: "Benchmark harness for the SPSC ring buffer and latency primitives",
	Long: `hftbench exercises the lock-free SPSC ring buffer, the relaxed atomic
counter, and the latency analyzer under realistic thread-to-thread and
UDP-ingest workloads, and archives the resulting percentile summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			log, err = zap.NewDevelopment()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hftbench: %v\n", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./hftbench.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("db", "", "sqlite path for persisting run summaries (empty disables)")
	viper.BindPFlag("db.path", rootCmd.PersistentFlags().Lookup("db"))

	viper.SetDefault("ring.size", 1024)
	viper.SetDefault("bench.iterations", 100000)
	viper.SetDefault("bench.threads", 8)
	viper.SetDefault("latency.iterations", 100000)
	viper.SetDefault("feed.addr", "0.0.0.0:9001")
	viper.SetDefault("feed.target", "127.0.0.1:9001")
	viper.SetDefault("feed.count", 10000)
	viper.SetDefault("feed.interval", "50us")
	viper.SetDefault("cores.network", -1)
	viper.SetDefault("cores.consumer", -1)

	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(latencyCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(reportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("hftbench")
	}

	viper.SetEnvPrefix("HFTBENCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// emit prints the report block for a run and, when a database path is
// configured, archives the summary.
func emit(name string, m metrics.Metrics) error {
	m.WriteReport(os.Stdout, name)

	path := viper.GetString("db.path")
	if path == "" {
		return nil
	}
	store, err := histstore.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.SaveRun(name, m)
	if err != nil {
		return err
	}
	log.Info("run archived", zap.String("name", name), zap.Int64("id", id), zap.String("db", path))
	return nil
}
