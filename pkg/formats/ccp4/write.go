package ccp4

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// machineStampLE is the little-endian machine stamp (0x44 0x44 0x00 0x00).
var machineStampLE = [4]byte{0x44, 0x44, 0x00, 0x00}

// Write serializes f little-endian: 1024-byte header, no symmetry block,
// then the samples in the header's storage order. Mode 0 truncates each
// sample to a signed byte; every other mode writes float32.
func Write(w io.Writer, f *File) error {
	h := f.Header
	if got, want := len(f.Values), h.SampleCount(); got != want {
		return fmt.Errorf("ccp4: %d samples for extent %dx%dx%d", got, h.NC, h.NR, h.NS)
	}

	head := make([]byte, headerWords*4)
	put := func(i int, v int32) {
		binary.LittleEndian.PutUint32(head[i*4:], uint32(v))
	}
	putf := func(i int, v float32) {
		binary.LittleEndian.PutUint32(head[i*4:], math.Float32bits(v))
	}

	put(0, h.NC)
	put(1, h.NR)
	put(2, h.NS)
	put(3, h.Mode)
	put(4, h.NCStart)
	put(5, h.NRStart)
	put(6, h.NSStart)
	put(7, h.NX)
	put(8, h.NY)
	put(9, h.NZ)
	putf(10, h.XLength)
	putf(11, h.YLength)
	putf(12, h.ZLength)
	putf(13, h.Alpha)
	putf(14, h.Beta)
	putf(15, h.Gamma)
	put(16, h.MAPC)
	put(17, h.MAPR)
	put(18, h.MAPS)
	putf(19, h.AMin)
	putf(20, h.AMax)
	putf(21, h.AMean)
	put(22, h.ISPG)
	put(23, 0) // symmetry block is never written
	putf(49, h.OriginX)
	putf(50, h.OriginY)
	putf(51, h.OriginZ)
	copy(head[52*4:], "MAP ")
	copy(head[53*4:], machineStampLE[:])
	putf(54, h.ARMS)

	if _, err := w.Write(head); err != nil {
		return fmt.Errorf("ccp4: writing header: %w", err)
	}
	return writeSamples(w, h.Mode, f.Values)
}

func writeSamples(w io.Writer, mode int32, values []float32) error {
	if mode == ModeInt8 {
		raw := make([]byte, len(values))
		for i, v := range values {
			raw[i] = byte(int8(v))
		}
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("ccp4: writing samples: %w", err)
		}
		return nil
	}

	raw := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("ccp4: writing samples: %w", err)
	}
	return nil
}

// ComputeStats fills AMIN/AMAX/AMEAN/ARMS from the sample block. The
// generator uses it; the parser never does, headers are trusted as written.
func (f *File) ComputeStats() {
	if len(f.Values) == 0 {
		return
	}
	min, max := f.Values[0], f.Values[0]
	var sum float64
	for _, v := range f.Values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += float64(v)
	}
	mean := sum / float64(len(f.Values))
	var sq float64
	for _, v := range f.Values {
		d := float64(v) - mean
		sq += d * d
	}
	f.Header.AMin = min
	f.Header.AMax = max
	f.Header.AMean = float32(mean)
	f.Header.ARMS = float32(math.Sqrt(sq / float64(len(f.Values))))
}
