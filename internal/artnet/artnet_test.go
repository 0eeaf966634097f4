package artnet_test

import (
	"testing"
	"time"

	"github.com/coreman2200/ledcore/internal/artnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildArtDMX(universe uint16, data []byte) []byte {
	pkt := make([]byte, 18+len(data))
	copy(pkt[0:8], "Art-Net\x00")
	pkt[8], pkt[9] = 0x00, 0x50 // opcode 0x5000 little-endian
	pkt[14], pkt[15] = byte(universe), byte(universe>>8)
	pkt[16], pkt[17] = byte(len(data)>>8), byte(len(data)) // big-endian length
	copy(pkt[18:], data)
	return pkt
}

func TestDecodeArtNetRoundTrip(t *testing.T) {
	data := []byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00}
	pkt := buildArtDMX(3, data)

	got, ok := artnet.DecodeArtNet(pkt)
	require.True(t, ok)
	assert.Equal(t, 3, got.Universe)
	assert.Equal(t, data, got.Payload)
}

func TestDecodeArtNetRejectsBadMagic(t *testing.T) {
	pkt := buildArtDMX(0, []byte{1, 2, 3, 4})
	pkt[0] = 'X'
	_, ok := artnet.DecodeArtNet(pkt)
	assert.False(t, ok)
}

// Spec scenario 3: universe=0, channel_offset=0, group_size=1, payload of
// four RGBW tuples on led_count=4 decodes to those tuples exactly.
func TestDecodePixelsScenario(t *testing.T) {
	payload := []byte{
		0xFF, 0x00, 0x00, 0x00,
		0x00, 0xFF, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0x00,
		0x00, 0x00, 0x00, 0xFF,
	}
	f, ok := artnet.DecodePixels(payload, 4, 0, 1)
	require.True(t, ok)
	assert.InDelta(t, 1.0, f.Pixels[0].R, 1e-9)
	assert.InDelta(t, 1.0, f.Pixels[1].G, 1e-9)
	assert.InDelta(t, 1.0, f.Pixels[2].B, 1e-9)
	assert.InDelta(t, 1.0, f.Pixels[3].W, 1e-9)
}

func TestDecodePixelsReplicatesGroupSize(t *testing.T) {
	payload := []byte{0x80, 0x80, 0x80, 0x00}
	f, ok := artnet.DecodePixels(payload, 4, 0, 4)
	require.True(t, ok)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, 0.5, f.Pixels[i].R, 1e-2)
	}
}

func TestDecodePixelsShortPayloadFails(t *testing.T) {
	_, ok := artnet.DecodePixels([]byte{1, 2, 3}, 4, 0, 1)
	assert.False(t, ok)
}

func TestLatestNilBeforeAnyPacket(t *testing.T) {
	r := artnet.New(4, 0, 0, 1, time.Second, nil)
	assert.Nil(t, r.Latest(time.Now()))
}

func TestMulticastGroup(t *testing.T) {
	assert.Equal(t, "239.255.0.0", artnet.MulticastGroup(0))
	assert.Equal(t, "239.255.1.44", artnet.MulticastGroup(0x012C))
}
