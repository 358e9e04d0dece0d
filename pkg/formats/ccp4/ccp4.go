// Package ccp4 reads and writes CCP4/MRC density maps: the fixed
// 1024-byte header, the symmetry block, and the sample block in either of
// the two sample encodings the framework consumes (signed bytes or
// float32).
package ccp4

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Mode values for the sample encoding. Mode 0 stores signed bytes; every
// other mode is read as float32, which covers the maps in circulation.
const (
	ModeInt8    = 0
	ModeFloat32 = 2
)

// headerWords is the fixed header size: 256 four-byte words.
const headerWords = 256

// maxSamples caps the accepted sample count so a corrupt header cannot
// trigger a multi-gigabyte allocation.
const maxSamples = 1 << 28

// Header is the decoded CCP4/MRC header, field names as in the format
// specification. Lengths are Angstrom, angles degrees; MAPC/MAPR/MAPS are
// 1-based axis assignments exactly as stored.
type Header struct {
	NC, NR, NS                int32 // extent: columns, rows, sections
	Mode                      int32
	NCStart, NRStart, NSStart int32 // sub-box start within the grid
	NX, NY, NZ                int32 // grid intervals along the full cell
	XLength, YLength, ZLength float32
	Alpha, Beta, Gamma        float32
	MAPC, MAPR, MAPS          int32
	AMin, AMax, AMean         float32
	ISPG                      int32
	NSYMBT                    int32
	OriginX, OriginY, OriginZ float32
	ARMS                      float32

	// LittleEndian records the byte order the file was written in.
	LittleEndian bool
}

// File is a fully parsed map: header plus samples in the file's
// fast-to-slow storage order (column fastest), converted to float32.
type File struct {
	Header Header
	Values []float32
}

// Parse reads a complete CCP4/MRC stream: header, symmetry block (skipped)
// and all samples.
func Parse(r io.Reader) (*File, error) {
	head := make([]byte, headerWords*4)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("ccp4: reading header: %w", err)
	}

	bo, le, err := detectByteOrder(head)
	if err != nil {
		return nil, err
	}

	h := decodeHeader(head, bo)
	h.LittleEndian = le
	if err := h.validate(); err != nil {
		return nil, err
	}

	if h.NSYMBT > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(h.NSYMBT)); err != nil {
			return nil, fmt.Errorf("ccp4: skipping symmetry block: %w", err)
		}
	}

	values, err := readSamples(r, h, bo)
	if err != nil {
		return nil, err
	}

	return &File{Header: h, Values: values}, nil
}

// detectByteOrder probes the MODE word: read little-endian it must land in
// the defined mode range, otherwise the file is big-endian.
func detectByteOrder(head []byte) (binary.ByteOrder, bool, error) {
	mode := int32(binary.LittleEndian.Uint32(head[3*4:]))
	if mode >= 0 && mode <= 16 {
		return binary.LittleEndian, true, nil
	}
	mode = int32(binary.BigEndian.Uint32(head[3*4:]))
	if mode >= 0 && mode <= 16 {
		return binary.BigEndian, false, nil
	}
	return nil, false, fmt.Errorf("ccp4: MODE word implausible in either byte order")
}

func decodeHeader(head []byte, bo binary.ByteOrder) Header {
	word := func(i int) int32 {
		return int32(bo.Uint32(head[i*4:]))
	}
	fword := func(i int) float32 {
		return math.Float32frombits(bo.Uint32(head[i*4:]))
	}

	return Header{
		NC: word(0), NR: word(1), NS: word(2),
		Mode:    word(3),
		NCStart: word(4), NRStart: word(5), NSStart: word(6),
		NX: word(7), NY: word(8), NZ: word(9),
		XLength: fword(10), YLength: fword(11), ZLength: fword(12),
		Alpha: fword(13), Beta: fword(14), Gamma: fword(15),
		MAPC: word(16), MAPR: word(17), MAPS: word(18),
		AMin: fword(19), AMax: fword(20), AMean: fword(21),
		ISPG:    word(22),
		NSYMBT:  word(23),
		OriginX: fword(49), OriginY: fword(50), OriginZ: fword(51),
		ARMS:    fword(54),
	}
}

func (h Header) validate() error {
	if h.NC <= 0 || h.NR <= 0 || h.NS <= 0 {
		return fmt.Errorf("ccp4: non-positive extent %dx%dx%d", h.NC, h.NR, h.NS)
	}
	count := int64(h.NC) * int64(h.NR) * int64(h.NS)
	if count > maxSamples {
		return fmt.Errorf("ccp4: sample count %d exceeds limit", count)
	}
	if h.NSYMBT < 0 {
		return fmt.Errorf("ccp4: negative symmetry block size %d", h.NSYMBT)
	}
	for _, m := range [3]int32{h.MAPC, h.MAPR, h.MAPS} {
		if m < 1 || m > 3 {
			return fmt.Errorf("ccp4: axis assignment %d outside 1..3", m)
		}
	}
	if h.MAPC == h.MAPR || h.MAPR == h.MAPS || h.MAPC == h.MAPS {
		return fmt.Errorf("ccp4: axis assignments %d,%d,%d are not a permutation", h.MAPC, h.MAPR, h.MAPS)
	}
	return nil
}

// SampleCount returns NC*NR*NS.
func (h Header) SampleCount() int {
	return int(h.NC) * int(h.NR) * int(h.NS)
}

func readSamples(r io.Reader, h Header, bo binary.ByteOrder) ([]float32, error) {
	count := h.SampleCount()
	values := make([]float32, count)

	if h.Mode == ModeInt8 {
		raw := make([]byte, count)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("ccp4: reading %d int8 samples: %w", count, err)
		}
		for i, b := range raw {
			values[i] = float32(int8(b))
		}
		return values, nil
	}

	raw := make([]byte, count*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("ccp4: reading %d float samples: %w", count, err)
	}
	for i := range values {
		values[i] = math.Float32frombits(bo.Uint32(raw[i*4:]))
	}
	return values, nil
}
