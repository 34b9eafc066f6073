package engine

import "fmt"

// Directive describes one replacement: remove Length bytes at Start and
// insert the concatenation of Fragments in their place.
type Directive struct {
	Start     int
	Length    int
	Fragments [][]byte
}

// InsertedLen returns the total length of the fragments.
func (d Directive) InsertedLen() int {
	n := 0
	for _, f := range d.Fragments {
		n += len(f)
	}
	return n
}

// Delta returns the change in buffer length the directive causes.
func (d Directive) Delta() int {
	return d.InsertedLen() - d.Length
}

// Splice returns a new buffer with d applied. buf is never modified.
// A directive that falls outside buf is a programming error and panics.
func Splice(buf []byte, d Directive) []byte {
	if d.Start < 0 || d.Length < 0 || d.Start+d.Length > len(buf) {
		panic(fmt.Sprintf("engine: directive [%d,+%d) outside buffer of %d bytes", d.Start, d.Length, len(buf)))
	}
	out := make([]byte, 0, len(buf)+d.Delta())
	out = append(out, buf[:d.Start]...)
	for _, f := range d.Fragments {
		out = append(out, f...)
	}
	out = append(out, buf[d.Start+d.Length:]...)
	return out
}
