package ddp

import (
	"net"
	"testing"
	"time"
)

func deadlineSoon() time.Time {
	return time.Now().Add(200 * time.Millisecond)
}

func TestSequenceByteCyclesOneToFifteen(t *testing.T) {
	cases := map[uint8]byte{0: 1, 1: 2, 14: 15, 15: 1, 16: 2, 29: 15, 30: 1, 255: 1}
	for frame, want := range cases {
		if got := sequenceByte(frame); got != want {
			t.Errorf("sequenceByte(%d) = %d, want %d", frame, got, want)
		}
	}
}

func TestMarshalHeaderFields(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	pkt := marshal(7, 12, data, true)
	if len(pkt) != headerLen+len(data) {
		t.Fatalf("len = %d, want %d", len(pkt), headerLen+len(data))
	}
	flags, seq, ptype, src, offset, got, err := Unmarshal(pkt)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if flags != flagVersion1|flagPush {
		t.Errorf("flags = 0x%02x, want version+push", flags)
	}
	if seq != 7 {
		t.Errorf("seq = %d, want 7", seq)
	}
	if ptype != payloadTypeRGB || src != sourceID {
		t.Errorf("ptype/src = %d/%d", ptype, src)
	}
	if offset != 12 {
		t.Errorf("offset = %d, want 12", offset)
	}
	if string(got) != string(data) {
		t.Errorf("data = %v, want %v", got, data)
	}
}

func TestMarshalNonFinalChunkOmitsPushFlag(t *testing.T) {
	pkt := marshal(1, 0, []byte{0xAA}, false)
	if pkt[0]&flagPush != 0 {
		t.Error("push flag should not be set on a non-final chunk")
	}
	if pkt[0]&flagVersion1 == 0 {
		t.Error("version flag should always be set")
	}
}

func TestSendChunksAcrossMaxDataBoundary(t *testing.T) {
	pc, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()
	addr := pc.LocalAddr().(*net.UDPAddr)

	conn, err := Dial(false)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	data := make([]byte, 10)
	for i := range data {
		data[i] = byte(i)
	}
	if err := conn.Send(addr.IP.String(), addr.Port, 0, data, 4); err != nil {
		t.Fatalf("send: %v", err)
	}

	var chunks [][]byte
	buf := make([]byte, 64)
	pc.SetReadDeadline(deadlineSoon())
	for {
		n, _, err := pc.ReadFromUDP(buf)
		if err != nil {
			break
		}
		cp := make([]byte, n)
		copy(cp, buf[:n])
		chunks = append(chunks, cp)
		pc.SetReadDeadline(deadlineSoon())
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3 (4+4+2 bytes)", len(chunks))
	}
	_, _, _, _, _, last, err := Unmarshal(chunks[len(chunks)-1])
	if err != nil {
		t.Fatalf("unmarshal last: %v", err)
	}
	if len(last) != 2 {
		t.Errorf("last chunk len = %d, want 2", len(last))
	}
	if chunks[len(chunks)-1][0]&flagPush == 0 {
		t.Error("final chunk should carry the push flag")
	}
	if chunks[0][0]&flagPush != 0 {
		t.Error("first chunk should not carry the push flag")
	}
}
