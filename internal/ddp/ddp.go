// Package ddp encodes pixel buffers into Distributed Display Protocol (DDP)
// packets and sends them over UDP to strip controllers.
package ddp

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
)

const (
	// Port is the conventional DDP destination port.
	Port = 4048

	// MaxDataLen is the largest payload one packet may carry: 480 pixels
	// of 3 bytes each.
	MaxDataLen = 480 * 3

	headerLen = 10

	flagVersion1 = 0x40
	flagPush     = 0x01 // set on the final chunk of a frame

	payloadTypeRGB = 0x01
	sourceID       = 0x01
)

// Conn wraps a UDP socket dedicated to sending DDP packets.
type Conn struct {
	pc *net.UDPConn
}

// Dial opens a UDP socket for sending DDP packets. When tuneSocket is true
// the socket's TOS is set through golang.org/x/net/ipv4 (best-effort) and
// its write buffer is enlarged to 1 MiB so that large multi-device fan-outs
// don't block on a default-sized kernel buffer.
func Dial(tuneSocket bool) (*Conn, error) {
	pc, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("ddp: open socket: %w", err)
	}
	if tuneSocket {
		pconn := ipv4.NewPacketConn(pc)
		_ = pconn.SetTOS(0) // best-effort; absence of IPv4 support on the interface is not fatal
		if err := pc.SetWriteBuffer(1 << 20); err != nil {
			pc.Close()
			return nil, fmt.Errorf("ddp: tune socket: %w", err)
		}
	}
	return &Conn{pc: pc}, nil
}

// Close releases the underlying socket.
func (c *Conn) Close() error {
	return c.pc.Close()
}

// Send chunks data into ≤maxData byte pieces and writes one DDP packet per
// chunk to dest:port. frameCount wraps into the 1..15 DDP sequence field.
func (c *Conn) Send(dest string, port int, frameCount uint8, data []byte, maxData int) error {
	if maxData <= 0 || maxData > MaxDataLen {
		maxData = MaxDataLen
	}
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", dest, port))
	if err != nil {
		return fmt.Errorf("ddp: resolve %s:%d: %w", dest, port, err)
	}
	seq := sequenceByte(frameCount)
	offset := uint32(0)
	for offset < uint32(len(data)) || len(data) == 0 {
		end := offset + uint32(maxData)
		if end > uint32(len(data)) {
			end = uint32(len(data))
		}
		chunk := data[offset:end]
		last := end >= uint32(len(data))
		pkt := marshal(seq, offset, chunk, last)
		if _, err := c.pc.WriteToUDP(pkt, addr); err != nil {
			return fmt.Errorf("ddp: write to %s: %w", dest, err)
		}
		if last {
			break
		}
		offset = end
	}
	return nil
}

// sequenceByte maps a wrapping 8-bit frame counter onto DDP's 1..15 cycle.
func sequenceByte(frameCount uint8) byte {
	return byte(frameCount%15) + 1
}

func marshal(seq byte, offset uint32, data []byte, last bool) []byte {
	buf := make([]byte, headerLen+len(data))
	flags := byte(flagVersion1)
	if last {
		flags |= flagPush
	}
	buf[0] = flags
	buf[1] = seq
	buf[2] = payloadTypeRGB
	buf[3] = sourceID
	binary.BigEndian.PutUint32(buf[4:8], offset)
	binary.BigEndian.PutUint16(buf[8:10], uint16(len(data)))
	copy(buf[headerLen:], data)
	return buf
}

// Unmarshal parses a DDP packet back into its header fields and payload.
// Primarily used by tests to assert the wire format is byte-exact.
func Unmarshal(pkt []byte) (flags, seq, payloadType, source byte, offset uint32, data []byte, err error) {
	if len(pkt) < headerLen {
		return 0, 0, 0, 0, 0, nil, fmt.Errorf("ddp: packet too short: %d bytes", len(pkt))
	}
	flags = pkt[0]
	seq = pkt[1]
	payloadType = pkt[2]
	source = pkt[3]
	offset = binary.BigEndian.Uint32(pkt[4:8])
	length := binary.BigEndian.Uint16(pkt[8:10])
	if len(pkt) < headerLen+int(length) {
		return 0, 0, 0, 0, 0, nil, fmt.Errorf("ddp: truncated payload: need %d, have %d", length, len(pkt)-headerLen)
	}
	data = pkt[headerLen : headerLen+int(length)]
	return flags, seq, payloadType, source, offset, data, nil
}
