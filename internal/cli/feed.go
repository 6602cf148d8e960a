// feed.go
//
// The UDP market-feed loops wired around one shared ring: `feed recv`
// runs the ingest socket as producer and a pinned consumer as drain,
// `feed send` is the matching load generator.  Together they reproduce
// the end-to-end path the primitives exist for.

package cli

import (
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"main/affinity"
	"main/counter"
	"main/feed"
	"main/spsc"
)

var metricsAddr string

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "UDP market-feed loops over the SPSC ring",
}

var feedRecvCmd = &cobra.Command{
	Use:   "recv",
	Short: "Receive datagrams into the ring and drain them on a pinned consumer",
	RunE:  runFeedRecv,
}

var feedSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Blast test messages at a receiver",
	RunE:  runFeedSend,
}

func init() {
	feedRecvCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (empty disables)")
	feedRecvCmd.Flags().String("addr", "", "override feed.addr")
	viper.BindPFlag("feed.addr", feedRecvCmd.Flags().Lookup("addr"))
	feedSendCmd.Flags().Int("count", 0, "override feed.count")
	viper.BindPFlag("feed.count", feedSendCmd.Flags().Lookup("count"))

	feedCmd.AddCommand(feedRecvCmd)
	feedCmd.AddCommand(feedSendCmd)
}

// pinnerFor returns affinity.Pin for a real core index and nil when the
// core is configured away, so disabled pinning stays silent.
func pinnerFor(core int) affinity.Pinner {
	if core >= 0 {
		return affinity.Pin
	}
	return nil
}

func runFeedRecv(cmd *cobra.Command, args []string) error {
	ring := spsc.New[feed.Message](viper.GetInt("ring.size"))

	netCore := viper.GetInt("cores.network")
	recv, err := feed.NewReceiver(ring, feed.ReceiverConfig{
		Addr:   viper.GetString("feed.addr"),
		Core:   netCore,
		Pin:    pinnerFor(netCore),
		Logger: log,
	})
	if err != nil {
		return err
	}

	// Consumer side: count and release.  A real pipeline would parse
	// and route here; the harness only needs the hand-off cost.
	processed := counter.New()
	stop := new(uint32)
	hot := new(uint32)
	done := make(chan struct{})
	atomic.StoreUint32(hot, 1)
	consumerCore := viper.GetInt("cores.consumer")
	spsc.PinnedConsumer(consumerCore, ring, pinnerFor(consumerCore),
		stop, hot, func(feed.Message) { processed.Increment() }, done)

	go recv.Run()

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("metrics endpoint up", zap.String("addr", metricsAddr))
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Warn("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	start := time.Now()
	<-ctx.Done()

	recv.Stop()
	atomic.StoreUint32(stop, 1)
	<-done

	elapsed := time.Since(start)
	fmt.Printf("=== Feed Summary ===\n")
	fmt.Printf("  Received:  %d\n", recv.Received())
	fmt.Printf("  Processed: %d\n", processed.Get())
	fmt.Printf("  Dropped:   %d\n", recv.Dropped())
	fmt.Printf("  Malformed: %d\n", recv.Malformed())
	fmt.Printf("  Rate:      %.2f msg/sec\n", float64(recv.Received())/elapsed.Seconds())
	return nil
}

func runFeedSend(cmd *cobra.Command, args []string) error {
	interval, err := time.ParseDuration(viper.GetString("feed.interval"))
	if err != nil {
		return fmt.Errorf("bad feed.interval: %w", err)
	}
	return feed.RunSender(feed.SenderConfig{
		Target:   viper.GetString("feed.target"),
		Count:    viper.GetInt("feed.count"),
		Interval: interval,
		Logger:   log,
	})
}
