package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledcore/internal/artnet"
	"github.com/coreman2200/ledcore/internal/config"
	"github.com/coreman2200/ledcore/internal/configstore"
	"github.com/coreman2200/ledcore/internal/coreerr"
	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/coreman2200/ledcore/internal/pattern"
	"github.com/coreman2200/ledcore/internal/renderloop"
	"github.com/coreman2200/ledcore/internal/sink"
	"github.com/coreman2200/ledcore/internal/timesync"
)

// Exit codes per the CLI contract: 0 clean shutdown, 1 configuration
// error, 2 hardware open error.
const (
	exitOK            = 0
	exitConfigError   = 1
	exitHardwareError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		ledCount   = flag.Int("led_count", 0, "number of LEDs on the strip (required unless set in --config)")
		pixelOrder = flag.String("led_pixel_order", "GRB", "wire channel order, e.g. RGB, GRB, RGBW, GRBW")
		targetFPS  = flag.Int("target_fps", 60, "target render rate in frames per second")
		configPath = flag.String("config", "", "path to the configuration document (YAML)")

		sinkKind   = flag.String("sink", "local", "output sink: local | serial | udp")
		spiPort    = flag.String("spi_port", "/dev/spidev0.0", "SPI device path for sink=local")
		serialPort = flag.String("serial_port", "/dev/ttyUSB0", "serial device path for sink=serial")
		serialBaud = flag.Int("serial_baud", 115200, "serial baud rate for sink=serial")
		udpAddr    = flag.String("udp_addr", "", "destination host:port for sink=udp")
		udpMTU     = flag.Int("udp_mtu", 1400, "per-datagram MTU for sink=udp")

		enableArtNet  = flag.Bool("artnet", false, "listen for ArtNet/sACN input")
		timesyncMode  = flag.String("timesync_mode", "off", "time sync role: off | master | slave")
		timesyncPeer  = flag.String("timesync_master_addr", "", "master address to lock onto in slave mode")
		timesyncEvery = flag.Duration("timesync_interval", time.Second, "broadcast interval in master mode")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	doc, patterns, err := loadConfig(*configPath, *ledCount, *targetFPS)
	if err != nil {
		log.Error().Err(err).Msg("configuration load failed")
		return exitConfigError
	}

	store := configstore.New()
	if err := store.Apply(doc, patterns); err != nil {
		log.Error().Err(err).Msg("configuration apply failed")
		return exitConfigError
	}

	m := metrics.New()

	s, err := buildSink(*sinkKind, *spiPort, *serialPort, *serialBaud, *udpAddr, *udpMTU, m)
	if err != nil {
		log.Error().Err(err).Msg("sink open failed")
		return exitHardwareError
	}
	if err := s.Configure(*pixelOrder, doc.LEDCount); err != nil {
		log.Error().Err(err).Msg("sink configure failed")
		return exitHardwareError
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var artnetRx *artnet.Receiver
	if *enableArtNet {
		artnetRx = artnet.New(doc.LEDCount, doc.ArtNet.Universe, doc.ArtNet.ChannelOffset, maxInt(1, doc.ArtNet.GroupSize), 2*time.Second, m)
		go func() {
			if err := artnetRx.RunArtNet(ctx); err != nil {
				log.Warn().Err(err).Msg("artnet receiver stopped")
			}
		}()
		go func() {
			if err := artnetRx.RunSACN(ctx); err != nil {
				log.Warn().Err(err).Msg("sacn receiver stopped")
			}
		}()
	}

	ts := buildTimeSync(*timesyncMode, *timesyncEvery, *timesyncPeer, m)
	if ts != nil {
		go runTimeSync(ctx, ts, *timesyncMode)
	}

	bindings := resolveSinkBindings(doc, s)
	loop := renderloop.New(doc.LEDCount, *pixelOrder, store, ts, artnetRx, m, bindings)

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	caught := <-sigCh
	log.Info().Str("signal", caught.String()).Msg("shutting down")

	cancel()
	<-done
	return exitOK
}

func loadConfig(path string, ledCountFlag, targetFPSFlag int) (*config.Document, *pattern.Registry, error) {
	patterns := pattern.NewRegistry()

	var doc *config.Document
	if path != "" {
		d, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		doc = d
	} else {
		doc = &config.Document{}
	}

	if doc.LEDCount <= 0 {
		doc.LEDCount = ledCountFlag
	}
	if doc.TargetFPS <= 0 {
		doc.TargetFPS = targetFPSFlag
	}
	if doc.LEDCount <= 0 {
		return nil, nil, coreerr.Newf(coreerr.ConfigInvalid, "", "led_count must be positive; pass --led_count or set led_count in --config")
	}
	return doc, patterns, nil
}

func buildSink(kind, spiPort, serialPort string, serialBaud int, udpAddr string, udpMTU int, m *metrics.Counters) (sink.Sink, error) {
	switch kind {
	case "serial":
		return sink.NewSerialSink("serial0", serialPort, serialBaud, m), nil
	case "udp":
		if udpAddr == "" {
			return nil, coreerr.New(coreerr.SinkFatal, "udp0", os.ErrInvalid)
		}
		return sink.NewUdpSink("udp0", udpAddr, udpMTU, m), nil
	default:
		return sink.NewLocalDriver("local0", spiPort, m), nil
	}
}

// resolveSinkBindings maps every SinkBinding value used by the document's
// groups onto the single configured Sink, since the CLI opens exactly
// one output device per process; multi-sink deployments run one ledcored
// per device, each with its own --config slice of groups.
func resolveSinkBindings(doc *config.Document, s sink.Sink) map[string]sink.Sink {
	bindings := map[string]sink.Sink{}
	seen := map[string]bool{"": true}
	bindings[""] = s
	for _, g := range doc.Groups {
		if !seen[g.SinkBinding] {
			seen[g.SinkBinding] = true
			bindings[g.SinkBinding] = s
		}
	}
	return bindings
}

func buildTimeSync(mode string, interval time.Duration, masterAddr string, m *metrics.Counters) *timesync.Sync {
	var tm timesync.Mode
	switch mode {
	case "master":
		tm = timesync.Master
	case "slave":
		tm = timesync.Slave
	default:
		return nil
	}
	return timesync.New(tm, interval, masterAddr, m)
}

func runTimeSync(ctx context.Context, ts *timesync.Sync, mode string) {
	var err error
	switch mode {
	case "master":
		err = ts.RunMaster(ctx)
	case "slave":
		err = ts.RunSlave(ctx)
	}
	if err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("timesync stopped")
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
