package sink

import (
	"sync"
	"time"

	"github.com/coreman2200/ledcore/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	serialFrameStart byte = 0x7E
	minBackoff            = 100 * time.Millisecond
	maxBackoff            = 5 * time.Second
)

// channelOrderCode maps a wire channel-order string to the single byte
// the SerialSink framing embeds, so a microcontroller firmware on the
// other end can interpret the payload without a side channel.
var channelOrderCode = map[string]byte{
	"RGB": 0, "RBG": 1, "GRB": 2, "GBR": 3, "BRG": 4, "BGR": 5,
	"RGBW": 0x10, "GRBW": 0x12, "RGB_W": 0x10,
}

// SerialSink tethers to a microcontroller over a serial link, framing
// each submission with a length-prefixed, CRC-protected envelope and
// reconnecting on I/O error with exponential backoff.
// Ground: original_source/ledcontrol/ledcontroller.py's _send serial
// path for the "tether to a microcontroller" shape; go.bug.st/serial
// usage follows _examples/banshee-data-velocity.report/internal/serialmux's
// Open(path, mode) idiom.
type SerialSink struct {
	id      uuid.UUID
	name    string
	path    string
	baud    int
	metrics *metrics.Counters
	box     *mailbox
	wg      sync.WaitGroup
	stop    chan struct{}

	mu      sync.Mutex
	port    serial.Port
	order   byte
	closed  bool
}

// NewSerialSink opens no port yet — the port opens lazily from the
// worker goroutine so a disconnected device at startup doesn't block
// Configure.
func NewSerialSink(name, path string, baud int, m *metrics.Counters) *SerialSink {
	if baud <= 0 {
		baud = 115200
	}
	return &SerialSink{
		id:      uuid.New(),
		name:    name,
		path:    path,
		baud:    baud,
		metrics: m,
		box:     newMailbox(),
		stop:    make(chan struct{}),
	}
}

func (s *SerialSink) Configure(channelOrder string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	code, ok := channelOrderCode[channelOrder]
	if !ok {
		code = 0
	}
	s.order = code

	alreadyRunning := s.port != nil
	if !alreadyRunning {
		s.wg.Add(1)
		go s.run()
	}
	return nil
}

func (s *SerialSink) Submit(frameBytes []byte) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	s.box.put(frameBytes)
	return nil
}

func (s *SerialSink) run() {
	defer s.wg.Done()
	backoff := minBackoff
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		s.mu.Lock()
		port := s.port
		s.mu.Unlock()
		if port == nil {
			p, err := serial.Open(s.path, &serial.Mode{BaudRate: s.baud})
			if err != nil {
				log.Warn().Str("sink", s.name).Str("worker_id", s.id.String()).Err(err).Dur("retry_in", backoff).Msg("serial sink reconnect failed")
				if !s.sleepOrStop(backoff) {
					return
				}
				backoff = nextBackoff(backoff)
				continue
			}
			s.mu.Lock()
			s.port = p
			s.mu.Unlock()
			backoff = minBackoff
			continue
		}

		select {
		case <-s.stop:
			return
		case <-s.box.signal:
			frameBytes, ok := s.box.take()
			if !ok {
				continue
			}
			if err := s.writeFramed(port, frameBytes); err != nil {
				if s.metrics != nil {
					s.metrics.RecordSinkDrop(s.name, err)
				}
				log.Warn().Str("sink", s.name).Str("worker_id", s.id.String()).Err(err).Msg("serial sink write failed, reconnecting")
				_ = port.Close()
				s.mu.Lock()
				s.port = nil
				s.mu.Unlock()
			}
		}
	}
}

func (s *SerialSink) sleepOrStop(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.stop:
		return false
	case <-t.C:
		return true
	}
}

func nextBackoff(cur time.Duration) time.Duration {
	next := cur * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (s *SerialSink) writeFramed(port serial.Port, payload []byte) error {
	s.mu.Lock()
	order := s.order
	s.mu.Unlock()

	_, err := port.Write(buildFrame(order, payload))
	return err
}

// buildFrame assembles the wire envelope: 0x7E | uint16_le len |
// channel-order byte | payload | uint16_le CRC16-CCITT, where len
// counts the channel-order byte plus payload, excluding the CRC.
func buildFrame(order byte, payload []byte) []byte {
	body := make([]byte, 0, 1+len(payload))
	body = append(body, order)
	body = append(body, payload...)

	frame := make([]byte, 0, 1+2+len(body)+2)
	frame = append(frame, serialFrameStart)
	frame = appendUint16LE(frame, uint16(len(body)))
	frame = append(frame, body...)
	crc := crc16CCITT(body)
	frame = appendUint16LE(frame, crc)
	return frame
}

func (s *SerialSink) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	port := s.port
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
	if port != nil {
		return port.Close()
	}
	return nil
}

func appendUint16LE(b []byte, v uint16) []byte {
	return append(b, byte(v), byte(v>>8))
}

// crc16CCITT computes the CRC-16/CCITT-FALSE checksum (poly 0x1021,
// init 0xFFFF) used by the serial tether's frame trailer.
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
