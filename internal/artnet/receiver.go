package artnet

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/coreman2200/ledcore/internal/frame"
	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// published is the single unit exchanged between receiver goroutines and
// the render loop: a fully-formed frame plus the wall-clock time it was
// decoded at, so staleness can be judged without a second shared field.
type published struct {
	frame     *frame.Frame
	decodedAt time.Time
}

// Receiver listens for ArtNet and sACN packets on a configured universe
// and publishes the most recently decoded payload as an RGBW frame.
// The UDP read loops (RunArtNet and RunSACN, one goroutine each) are the
// only writers and publish with an atomic pointer store; the render loop
// reads via Latest, which is a single atomic pointer load — no locks.
type Receiver struct {
	id            uuid.UUID
	ledCount      int
	universe      int
	channelOffset int
	ledsPerPixel  int
	staleAfter    time.Duration

	latest atomic.Pointer[published]
	m      *metrics.Counters
}

// New returns a Receiver configured for one universe. ledsPerPixel must
// be >= 1; staleAfter bounds how long a decoded frame is considered
// fresh once no further packets arrive.
func New(ledCount, universe, channelOffset, ledsPerPixel int, staleAfter time.Duration, m *metrics.Counters) *Receiver {
	if ledsPerPixel < 1 {
		ledsPerPixel = 1
	}
	return &Receiver{
		id:       uuid.New(),
		ledCount: ledCount, universe: universe, channelOffset: channelOffset,
		ledsPerPixel: ledsPerPixel, staleAfter: staleAfter, m: m,
	}
}

// Latest returns the most recently decoded frame, or nil if either no
// packet has ever arrived or the last one is older than staleAfter (spec
// §4.6: "the RenderLoop then uses the last non-stale frame or, if none,
// a zero frame").
func (r *Receiver) Latest(now time.Time) *frame.Frame {
	p := r.latest.Load()
	if p == nil {
		return nil
	}
	if now.Sub(p.decodedAt) > r.staleAfter {
		return nil
	}
	return p.frame
}

// RunArtNet blocks serving ArtNet OpDmx packets on UDP/6454 until ctx is
// canceled.
func (r *Receiver) RunArtNet(ctx context.Context) error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: Port})
	if err != nil {
		return fmt.Errorf("artnet: listen: %w", err)
	}
	return r.serve(ctx, conn, DecodeArtNet)
}

// RunSACN blocks serving sACN (E1.31) packets on the multicast group for
// r.universe until ctx is canceled.
func (r *Receiver) RunSACN(ctx context.Context) error {
	group := net.ParseIP(MulticastGroup(r.universe))
	conn, err := net.ListenMulticastUDP("udp", nil, &net.UDPAddr{IP: group, Port: SACNPort})
	if err != nil {
		return fmt.Errorf("artnet: sacn listen: %w", err)
	}
	return r.serve(ctx, conn, DecodeSACN)
}

func (r *Receiver) serve(ctx context.Context, conn *net.UDPConn, decode func([]byte) (DecodedPacket, bool)) error {
	defer conn.Close()
	log.Info().Str("receiver_id", r.id.String()).Str("local_addr", conn.LocalAddr().String()).Msg("artnet: receiver listening")
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 2048)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		pkt, ok := decode(buf[:n])
		if !ok {
			if r.m != nil {
				r.m.IncArtnetDrop()
			}
			continue
		}
		if pkt.Universe != r.universe {
			continue
		}
		f, ok := r.decodePixels(pkt.Payload)
		if !ok {
			if r.m != nil {
				r.m.IncArtnetDrop()
			}
			continue
		}
		r.latest.Store(&published{frame: f, decodedAt: time.Now()})
		if r.m != nil {
			r.m.IncArtnetPacket()
		}
	}
}

func (r *Receiver) decodePixels(payload []byte) (*frame.Frame, bool) {
	return DecodePixels(payload, r.ledCount, r.channelOffset, r.ledsPerPixel)
}

// DecodePixels extracts payload[channel_offset .. +4*K] where
// K = ceil(led_count/leds_per_pixel), converts each 4-byte group into an
// RGBW pixel, and replicates it across leds_per_pixel consecutive LEDs.
func DecodePixels(payload []byte, ledCount, channelOffset, ledsPerPixel int) (*frame.Frame, bool) {
	if ledsPerPixel < 1 {
		ledsPerPixel = 1
	}
	k := (ledCount + ledsPerPixel - 1) / ledsPerPixel
	need := channelOffset + 4*k
	if need > len(payload) {
		return nil, false
	}

	f := frame.New(ledCount)
	for groupIdx := 0; groupIdx < k; groupIdx++ {
		base := channelOffset + 4*groupIdx
		px := frame.Pixel{
			R: float64(payload[base]) / 255.0,
			G: float64(payload[base+1]) / 255.0,
			B: float64(payload[base+2]) / 255.0,
			W: float64(payload[base+3]) / 255.0,
		}
		start := groupIdx * ledsPerPixel
		end := start + ledsPerPixel
		if end > ledCount {
			end = ledCount
		}
		for i := start; i < end; i++ {
			f.Pixels[i] = px
		}
	}
	return f, true
}
