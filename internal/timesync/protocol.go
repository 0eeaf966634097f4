package timesync

import (
	"encoding/binary"
	"math"
)

// Port is the UDP port TimeSync broadcasts/listens on, distinct from the
// ArtNet port (6454).
const Port = 6455

const packetLen = 24

var magic = [4]byte{'L', 'C', 'T', 'S'}

const wireVersion uint16 = 1

// encodePacket builds the 24-byte little-endian wire packet: 4-byte
// magic, uint16 version, uint16 flags, int64 master wall-clock
// nanoseconds, float64 anim_time seconds.
func encodePacket(masterWallNS int64, animTimeS float64) []byte {
	buf := make([]byte, packetLen)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], wireVersion)
	binary.LittleEndian.PutUint16(buf[6:8], 0) // flags, reserved
	binary.LittleEndian.PutUint64(buf[8:16], uint64(masterWallNS))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(animTimeS))
	return buf
}

// decodePacket parses a received packet, returning ok=false for anything
// too short or with the wrong magic.
func decodePacket(b []byte) (masterWallNS int64, animTimeS float64, ok bool) {
	if len(b) < packetLen {
		return 0, 0, false
	}
	if b[0] != magic[0] || b[1] != magic[1] || b[2] != magic[2] || b[3] != magic[3] {
		return 0, 0, false
	}
	masterWallNS = int64(binary.LittleEndian.Uint64(b[8:16]))
	animTimeS = math.Float64frombits(binary.LittleEndian.Uint64(b[16:24]))
	return masterWallNS, animTimeS, true
}
