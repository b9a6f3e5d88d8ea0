package hash

import (
	"testing"

	"github.com/alecthomas/unsafeslice"
	"github.com/twmb/murmur3"
)

var xxx = []byte("e:0e1f461bbefa6e07cc2ef06b9ee1ed25101e24d4345af266ed2f5a58bcd26c5e")

func TestNew(t *testing.T) {
	salt, err := Salt()
	if err != nil {
		t.Fatalf("Salt: %v", err)
	}

	hasherTests := []struct {
		name string
		t    int
	}{
		{"murmur3", Murmur3},
		{"metro", Metro},
		{"highway", Highway},
		{"blake3", Blake3},
	}

	for _, tt := range hasherTests {
		h, err := New(tt.t, salt)
		if err != nil {
			t.Fatalf("New(%s): %v", tt.name, err)
		}

		got := h.Hash64(xxx)
		if again := h.Hash64(xxx); again != got {
			t.Errorf("%s: same input hashed twice: want: %d, got: %d", tt.name, got, again)
		}
	}

	if _, err := New(42, salt); err != ErrUnknownHash {
		t.Errorf("New(42): want: %v, got: %v", ErrUnknownHash, err)
	}
}

func TestSaltLengthMismatch(t *testing.T) {
	short := make([]byte, SaltLength-1)

	for _, typ := range []int{Murmur3, Metro, Highway, Blake3} {
		if _, err := New(typ, short); err != ErrSaltLengthMismatch {
			t.Errorf("New(%d) with short salt: want: %v, got: %v", typ, ErrSaltLengthMismatch, err)
		}
	}
}

func TestSaltedHashersDiffer(t *testing.T) {
	s1, _ := Salt()
	s2, _ := Salt()

	h1, _ := NewMurmur3Hasher(s1)
	h2, _ := NewMurmur3Hasher(s2)

	if h1.Hash64(xxx) == h2.Hash64(xxx) {
		t.Errorf("two distinct salts produced the same murmur3 sum for %s", xxx)
	}
}

func BenchmarkMurmur3(b *testing.B) {
	s, _ := Salt()
	h, _ := NewMurmur3Hasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkMetro(b *testing.B) {
	s, _ := Salt()
	h, _ := NewMetroHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkHighway(b *testing.B) {
	s, _ := Salt()
	h, _ := NewHighwayHasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkBlake3(b *testing.B) {
	s, _ := Salt()
	h, _ := NewBlake3Hasher(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Hash64(xxx)
	}
}

func BenchmarkMurmur316Unsafe(b *testing.B) {
	src := make([]byte, 66)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hi, lo := murmur3.SeedSum128(0, 2, src)
		unsafeslice.ByteSliceFromUint64Slice([]uint64{hi, lo})
	}
}
