package sink_test

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/coreman2200/ledcore/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUdpSinkFragmentsAcrossMTU(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	s := sink.NewUdpSink("test", pc.LocalAddr().String(), 4, nil)
	require.NoError(t, s.Configure("RGB", 0))
	defer s.Shutdown()

	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	require.NoError(t, s.Submit(payload))

	reassembled := make([]byte, len(payload))
	buf := make([]byte, 64)
	deadline := time.Now().Add(2 * time.Second)
	received := 0
	for received < len(payload) {
		require.NoError(t, pc.SetReadDeadline(deadline))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 8)

		seq := binary.LittleEndian.Uint32(buf[0:4])
		offset := binary.LittleEndian.Uint16(buf[4:6])
		plen := binary.LittleEndian.Uint16(buf[6:8])
		assert.Equal(t, uint32(1), seq)
		assert.Equal(t, int(plen), n-8)
		copy(reassembled[offset:], buf[8:n])
		received += int(plen)
	}
	assert.Equal(t, payload, reassembled)
}

func TestMailboxRapidSubmitsDoNotBlock(t *testing.T) {
	// exercised indirectly: two rapid Submits would block if the mailbox
	// itself were unbuffered/blocking, so both returning and a frame
	// carrying one of the two payloads arriving is the behavioral
	// contract under test.
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	s := sink.NewUdpSink("test", pc.LocalAddr().String(), 1400, nil)
	require.NoError(t, s.Configure("RGB", 0))
	defer s.Shutdown()

	require.NoError(t, s.Submit([]byte{0xAA}))
	require.NoError(t, s.Submit([]byte{0xBB}))

	buf := make([]byte, 64)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 9)
	// either submission may win the race to the mailbox before the
	// worker wakes; both are valid single-byte payloads.
	assert.Contains(t, []byte{0xAA, 0xBB}, buf[8])
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	s := sink.NewUdpSink("test", "127.0.0.1:9", 1400, nil)
	require.NoError(t, s.Shutdown())
	err := s.Submit([]byte{1})
	assert.ErrorIs(t, err, sink.ErrClosed)
}
