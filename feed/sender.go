// sender.go
//
// Rate-limited UDP load generator.  Sends Count copies of a canonical
// trade message so the receive side can be exercised and measured
// without a real exchange feed.

package feed

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// SenderConfig configures RunSender.  Interval spaces consecutive
// sends; zero means flat-out.
type SenderConfig struct {
	Target   string // e.g. "127.0.0.1:9001"
	Count    int
	Interval time.Duration
	Logger   *zap.Logger
}

// RunSender transmits cfg.Count test messages to cfg.Target and
// returns once all sends have been attempted.  Individual send errors
// are logged and skipped; only setup failures abort.
func RunSender(cfg SenderConfig) error {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	target, err := net.ResolveUDPAddr("udp", cfg.Target)
	if err != nil {
		return fmt.Errorf("feed: resolve target %q: %w", cfg.Target, err)
	}
	conn, err := net.DialUDP("udp", nil, target)
	if err != nil {
		return fmt.Errorf("feed: dial %q: %w", cfg.Target, err)
	}
	defer conn.Close()

	msg := NewMessage("AAPL", 150.25, 100)
	var wire [EncodedSize]byte
	if err := msg.Encode(wire[:]); err != nil {
		return err
	}

	log.Info("feed sender starting",
		zap.String("target", cfg.Target),
		zap.Int("count", cfg.Count),
		zap.Duration("interval", cfg.Interval),
	)

	for i := 0; i < cfg.Count; i++ {
		if _, err := conn.Write(wire[:]); err != nil {
			log.Warn("send failed", zap.Int("seq", i), zap.Error(err))
		} else if i%1000 == 0 {
			log.Debug("progress", zap.Int("sent", i+1))
		}
		if cfg.Interval > 0 {
			time.Sleep(cfg.Interval)
		}
	}

	log.Info("feed sender finished", zap.Int("count", cfg.Count))
	return nil
}
