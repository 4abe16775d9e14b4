package bitio

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	type pair struct {
		val uint32
		n   uint
	}
	pairs := []pair{
		{0x1, 1}, {0x0, 1}, {0x3, 2}, {0xAB, 8}, {0x7FFF, 15},
		{0xFFFF, 16}, {0, 5}, {0x1234, 13}, {1, 1}, {0, 0},
	}

	buf := make([]byte, 64)
	w := NewWriter(buf)
	for _, p := range pairs {
		w.WriteBits(p.val, p.n)
	}
	n, err := w.Flush()
	if err != nil {
		t.Fatalf("flush: %v", err)
	}

	r := NewReader(buf[:n])
	for i, p := range pairs {
		r.Refill()
		got, ok := r.ReadBits(p.n)
		if !ok {
			t.Fatalf("pair %d: short read", i)
		}
		want := p.val & (1<<p.n - 1)
		if p.n == 0 {
			want = 0
		}
		if got != want {
			t.Fatalf("pair %d: got %#x want %#x", i, got, want)
		}
	}
}

func TestWriterShortBuffer(t *testing.T) {
	buf := make([]byte, 1)
	w := NewWriter(buf)
	for i := 0; i < 20; i++ {
		w.WriteBits(1, 1)
	}
	_, err := w.Flush()
	if err != ErrShortBuffer {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if !w.Failed() {
		t.Fatal("expected Failed() true")
	}
}

func TestReaderEOFTolerance(t *testing.T) {
	r := NewReader([]byte{0xFF})
	r.Refill()
	for i := 0; i < 8; i++ {
		if _, ok := r.ReadBits(1); !ok {
			t.Fatalf("unexpected short read at bit %d", i)
		}
	}
	// Calling Refill repeatedly at EOF must not panic or loop forever.
	for i := 0; i < 3; i++ {
		r.Refill()
	}
	if _, ok := r.ReadBits(1); ok {
		t.Fatal("expected exhausted reader to report short read")
	}
}

func TestAlignToByte(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	w.WriteBits(0x5, 3)
	w.AlignToByte()
	w.WriteBytes([]byte{0xAA, 0xBB})
	n, err := w.Flush()
	if err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x5 || buf[1] != 0xAA || buf[2] != 0xBB {
		t.Fatalf("unexpected bytes: %x", buf[:n])
	}
}
