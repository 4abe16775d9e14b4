package matchfinder

import (
	"bytes"
	"math/rand"
	"testing"
)

func allFinders() map[string]Finder {
	return map[string]Finder{
		"HashOnly":   NewHashOnly(),
		"HashChain":  NewHashChain(),
		"BinaryTree": NewBinaryTree(),
	}
}

func verifyMatch(t *testing.T, data []byte, pos int, m Match) {
	t.Helper()
	if m.Length == 0 {
		return
	}
	if m.Length < MinMatchLength || m.Length > MaxMatchLength {
		t.Fatalf("pos %d: match length %d out of range", pos, m.Length)
	}
	if m.Distance < 1 || m.Distance > pos || m.Distance > MaxMatchOffset {
		t.Fatalf("pos %d: match distance %d out of range", pos, m.Distance)
	}
	src := pos - m.Distance
	if !bytes.Equal(data[src:src+m.Length], data[pos:pos+m.Length]) {
		t.Fatalf("pos %d: match (len=%d, dist=%d) does not reproduce source bytes", pos, m.Length, m.Distance)
	}
}

func TestFindersRoundTripRepeatedPattern(t *testing.T) {
	data := bytes.Repeat([]byte("abcde"), 200)
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			for pos := 0; pos < len(data); {
				m := f.Find(pos, 32, 128)
				verifyMatch(t, data, pos, m)
				if m.Length >= MinMatchLength {
					for i := 1; i < m.Length; i++ {
						f.Skip(pos + i)
					}
					pos += m.Length
				} else {
					pos++
				}
			}
		})
	}
}

func TestFindersFindExactRepeat(t *testing.T) {
	data := append([]byte("the quick brown fox jumps over the lazy dog. "), []byte("the quick brown fox jumps over the lazy dog.")...)
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			for i := 0; i < 46; i++ {
				f.Skip(i)
			}
			m := f.Find(46, 64, 258)
			verifyMatch(t, data, 46, m)
			if m.Length < 10 {
				t.Fatalf("expected a long match at the repeat boundary, got length %d", m.Length)
			}
		})
	}
}

func TestFindersRandomDataNoFalseMatches(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 20000)
	rng.Read(data)
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			for pos := 0; pos < len(data); pos++ {
				m := f.Find(pos, 32, 128)
				verifyMatch(t, data, pos, m)
			}
		})
	}
}

func TestFindersAllZero(t *testing.T) {
	data := make([]byte, 10000)
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			pos := 0
			total := 0
			for pos < len(data) {
				m := f.Find(pos, 32, 258)
				verifyMatch(t, data, pos, m)
				if m.Length >= MinMatchLength {
					for i := 1; i < m.Length; i++ {
						f.Skip(pos + i)
					}
					pos += m.Length
					total++
				} else {
					pos++
				}
			}
			if total == 0 {
				t.Fatalf("expected at least one match in an all-zero buffer")
			}
		})
	}
}

func TestFindAllRecordsImprovingMatches(t *testing.T) {
	data := bytes.Repeat([]byte("abcde"), 200)
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			for i := 0; i < 10; i++ {
				f.Skip(i)
			}
			var matches []Match
			matches = f.FindAll(10, 64, 258, matches[:0])
			for i := 1; i < len(matches); i++ {
				if matches[i].Length <= matches[i-1].Length {
					t.Fatalf("FindAll matches not strictly improving: %+v", matches)
				}
			}
			for _, m := range matches {
				verifyMatch(t, data, 10, m)
			}
		})
	}
}

func TestFindersShortInputNoMatch(t *testing.T) {
	data := []byte("ab")
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			m := f.Find(0, 32, 128)
			if m.Length != 0 {
				t.Fatalf("expected no match on a 2-byte input, got %+v", m)
			}
		})
	}
}

func TestFindersResetClearsState(t *testing.T) {
	data := bytes.Repeat([]byte("xyzxy"), 50)
	for name, f := range allFinders() {
		t.Run(name, func(t *testing.T) {
			f.SetData(data)
			for i := 0; i < 20; i++ {
				f.Skip(i)
			}
			f.Reset()
			f.SetData(data)
			m := f.Find(4, 32, 128)
			verifyMatch(t, data, 4, m)
		})
	}
}
