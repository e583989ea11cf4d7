package icmp

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "ICMP Echo Request example",
			data:     []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01},
			expected: 0xf7fd,
		},
		{
			name:     "all zeros",
			data:     []byte{0x00, 0x00, 0x00, 0x00},
			expected: 0xffff,
		},
		{
			name:     "all ones",
			data:     []byte{0xff, 0xff, 0xff, 0xff},
			expected: 0x0000,
		},
		{
			name:     "odd length",
			data:     []byte{0x00, 0x01, 0xf2},
			expected: 0x0dfe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.expected {
				t.Errorf("Checksum(%v) = 0x%04x, want 0x%04x", tt.data, got, tt.expected)
			}
		})
	}
}

func TestEchoMarshalParseRoundTrip(t *testing.T) {
	echo := Echo{
		Type:              8,
		Code:              0,
		Identifier:        0x1234,
		Sequence:          0x0005,
		PayloadIdentifier: 0x1234,
		Timestamp:         1.5,
	}

	data := echo.Marshal(true)
	if len(data) != PacketSize {
		t.Fatalf("Marshal returned %d bytes, want %d", len(data), PacketSize)
	}

	parsed, err := ParseEcho(data)
	if err != nil {
		t.Fatalf("ParseEcho: %v", err)
	}

	if parsed.Identifier != echo.Identifier || parsed.Sequence != echo.Sequence ||
		parsed.PayloadIdentifier != echo.PayloadIdentifier || parsed.Timestamp != echo.Timestamp {
		t.Errorf("ParseEcho(Marshal(echo)) = %+v, want %+v", parsed, echo)
	}
}

func TestEchoMarshalV4SetsChecksum(t *testing.T) {
	echo := Echo{Type: 8, Identifier: 1, Sequence: 1}

	v4 := echo.Marshal(true)
	if v4[2] == 0 && v4[3] == 0 {
		t.Errorf("Marshal(v4=true) left the checksum field zero")
	}

	v6 := echo.Marshal(false)
	if v6[2] != 0 || v6[3] != 0 {
		t.Errorf("Marshal(v4=false) wrote a checksum, want it left for the kernel")
	}
}

func TestParseEchoRejectsShortPacket(t *testing.T) {
	if _, err := ParseEcho(make([]byte, PacketSize-1)); err != ErrShortPacket {
		t.Errorf("ParseEcho(short) error = %v, want ErrShortPacket", err)
	}
}
