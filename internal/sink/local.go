package sink

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/coreman2200/ledcore/internal/coreerr"
	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// LocalDriver writes frames directly to a hardware NRZ LED strip over
// SPI via periph.io. Ground: model/models.go's initLedDrawer, which opens
// a spireg port and wraps it with nrzled.NewSPI for the identical
// WS2812B/SK6812 hardware family.
type LocalDriver struct {
	id        uuid.UUID
	name      string
	spiPort   string
	freqKHz   int
	metrics   *metrics.Counters
	box       *mailbox
	wg        sync.WaitGroup
	stop      chan struct{}

	mu           sync.Mutex
	drawer       display.Drawer
	ledCount     int
	useWhite     bool
	closed       bool
}

// NewLocalDriver records spiPort (a periph spireg port name, e.g.
// "SPI0.0"); Configure opens it and drives ledCount RGB or RGBW pixels
// at approximately 800kHz NRZ
// timing, matching the teacher's RefreshRate constant.
func NewLocalDriver(name, spiPort string, m *metrics.Counters) *LocalDriver {
	return &LocalDriver{
		id:      uuid.New(),
		name:    name,
		spiPort: spiPort,
		freqKHz: 800 * 3, // one SPI bit group per NRZ tri-bit, as in model/models.go
		metrics: m,
		box:     newMailbox(),
		stop:    make(chan struct{}),
	}
}

func (d *LocalDriver) Configure(channelOrder string, ledCount int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.useWhite = len(channelOrder) == 4
	d.ledCount = ledCount

	if _, err := host.Init(); err != nil {
		return coreerr.New(coreerr.SinkFatal, d.name, fmt.Errorf("periph host init: %w", err))
	}

	port, err := spireg.Open(d.spiPort)
	if err != nil {
		return coreerr.New(coreerr.SinkFatal, d.name, fmt.Errorf("open SPI port %q: %w", d.spiPort, err))
	}
	channels := 3
	if d.useWhite {
		channels = 4
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: ledCount,
		Channels:  channels,
		Freq:      physic.Frequency(d.freqKHz) * physic.KiloHertz,
	})
	if err != nil {
		return coreerr.New(coreerr.SinkFatal, d.name, fmt.Errorf("init nrzled: %w", err))
	}
	d.drawer = dev

	d.wg.Add(1)
	go d.run()
	return nil
}

func (d *LocalDriver) Submit(frameBytes []byte) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return ErrClosed
	}
	d.box.put(frameBytes)
	return nil
}

func (d *LocalDriver) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stop:
			return
		case <-d.box.signal:
			frameBytes, ok := d.box.take()
			if !ok {
				continue
			}
			d.write(frameBytes)
		}
	}
}

func (d *LocalDriver) write(frameBytes []byte) {
	d.mu.Lock()
	drawer := d.drawer
	n := d.ledCount
	d.mu.Unlock()
	if drawer == nil || n == 0 {
		return
	}
	channels := 3
	if d.useWhite {
		channels = 4
	}
	img := image.NewNRGBA(image.Rect(0, 0, n, 1))
	for i := 0; i < n && (i+1)*channels <= len(frameBytes); i++ {
		off := i * channels
		img.SetNRGBA(i, 0, pixelToNRGBA(frameBytes[off:off+channels]))
	}
	if err := drawer.Draw(drawer.Bounds(), img, image.Point{}); err != nil {
		if d.metrics != nil {
			d.metrics.RecordSinkDrop(d.name, err)
		}
		log.Warn().Str("sink", d.name).Str("worker_id", d.id.String()).Err(err).Msg("local driver write failed")
	}
}

// pixelToNRGBA reads a 3- or 4-byte wire pixel (already channel-permuted
// by the render pipeline) into an opaque color.NRGBA; a fourth byte, if
// present, folds into the displayed color as additional brightness since
// image.NRGBA has no fourth LED channel of its own.
func pixelToNRGBA(b []byte) color.NRGBA {
	r, g, bl := b[0], b[1], b[2]
	if len(b) >= 4 {
		w := b[3]
		r = addSat(r, w)
		g = addSat(g, w)
		bl = addSat(bl, w)
	}
	return color.NRGBA{R: r, G: g, B: bl, A: 255}
}

func addSat(a, b byte) byte {
	sum := int(a) + int(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

func (d *LocalDriver) Shutdown() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	drawer := d.drawer
	d.mu.Unlock()

	close(d.stop)
	d.wg.Wait()
	if drawer != nil {
		return drawer.Halt()
	}
	return nil
}
