// Package artnet ingests ArtNet DMX and sACN (E1.31) packets and
// publishes the most recently decoded universe payload as an RGBW frame,
// using a lock-free pointer swap so the render loop never blocks on the
// network.
// Ground: original_source/ledcontrol/artnet_server.py's header parsing
// (Art-Net\0 magic, little-endian opcode/universe, big-endian length),
// adapted from a 3-byte-per-LED RGB decode into the core's RGBW decode,
// and other_examples/scoobymooch-artnet_showrunner__main.go's raw UDP
// socket handling idiom (net.ListenUDP, manual header byte offsets).
package artnet

import "encoding/binary"

const (
	// Port is the ArtNet UDP port.
	Port = 6454
	// SACNPort is the sACN (E1.31) UDP port.
	SACNPort = 5568

	opDMX = 0x5000

	rootVectorData    = 0x00000004
	framingVectorData = 0x00000002
)

var artnetHeader = [8]byte{'A', 'r', 't', '-', 'N', 'e', 't', 0}

// DecodedPacket is a successfully parsed ArtNet or sACN packet.
type DecodedPacket struct {
	Universe int
	Payload  []byte // DMX data bytes, not including the start code
}

// DecodeArtNet parses an ArtNet OpDmx packet. Layout: 8-byte magic,
// uint16 LE opcode, uint16 protocol version, 1-byte sequence, 1-byte
// physical port, uint16 LE universe, uint16 BE length, then length bytes
// of DMX data.
func DecodeArtNet(pkt []byte) (DecodedPacket, bool) {
	if len(pkt) < 18 {
		return DecodedPacket{}, false
	}
	for i := 0; i < 8; i++ {
		if pkt[i] != artnetHeader[i] {
			return DecodedPacket{}, false
		}
	}
	opcode := binary.LittleEndian.Uint16(pkt[8:10])
	if opcode != opDMX {
		return DecodedPacket{}, false
	}
	universe := int(binary.LittleEndian.Uint16(pkt[14:16]))
	length := int(binary.BigEndian.Uint16(pkt[16:18]))
	if length < 2 || length > 512 || 18+length > len(pkt) {
		return DecodedPacket{}, false
	}
	return DecodedPacket{Universe: universe, Payload: pkt[18 : 18+length]}, true
}

// sACN (E1.31) offsets, per the ANSI E1.31 root/framing/DMP layer layout.
const (
	sacnRootVectorOff    = 18
	sacnFramingVectorOff = 40
	sacnUniverseOff       = 113
	sacnDMPVectorOff      = 117
	sacnStartCodeOff      = 125
	sacnDataOff           = 126
)

// DecodeSACN parses an sACN (E1.31) data packet, validating the root
// layer vector (VECTOR_ROOT_E131_DATA), the framing layer vector
// (VECTOR_E131_DATA_PACKET), and that the DMX start code is 0.
func DecodeSACN(pkt []byte) (DecodedPacket, bool) {
	if len(pkt) < sacnDataOff {
		return DecodedPacket{}, false
	}
	rootVector := binary.BigEndian.Uint32(pkt[sacnRootVectorOff : sacnRootVectorOff+4])
	if rootVector != rootVectorData {
		return DecodedPacket{}, false
	}
	framingVector := binary.BigEndian.Uint32(pkt[sacnFramingVectorOff : sacnFramingVectorOff+4])
	if framingVector != framingVectorData {
		return DecodedPacket{}, false
	}
	if pkt[sacnStartCodeOff] != 0 {
		return DecodedPacket{}, false
	}
	universe := int(binary.BigEndian.Uint16(pkt[sacnUniverseOff : sacnUniverseOff+2]))
	return DecodedPacket{Universe: universe, Payload: pkt[sacnDataOff:]}, true
}

// MulticastGroup returns the sACN multicast group address for a universe,
// 239.255.{hi}.{lo} where hi/lo are the universe's big-endian bytes.
func MulticastGroup(universe int) string {
	hi := byte(universe >> 8)
	lo := byte(universe)
	return ipString(239, 255, hi, lo)
}

func ipString(a, b, c, d byte) string {
	buf := [4]byte{a, b, c, d}
	out := make([]byte, 0, 15)
	for i, o := range buf {
		if i > 0 {
			out = append(out, '.')
		}
		out = appendUint8(out, o)
	}
	return string(out)
}

func appendUint8(dst []byte, v byte) []byte {
	if v >= 100 {
		dst = append(dst, '0'+v/100)
		v %= 100
		dst = append(dst, '0'+v/10, '0'+v%10)
	} else if v >= 10 {
		dst = append(dst, '0'+v/10, '0'+v%10)
	} else {
		dst = append(dst, '0'+v)
	}
	return dst
}
