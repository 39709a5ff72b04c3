package sound

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
)

const (
	channels    = 2
	sampleBytes = 2
	frameBytes  = channels * sampleBytes
)

// pannedStream loops 16-bit little-endian stereo PCM forever, scaling each
// channel by gains that may change while ebiten reads from another goroutine
type pannedStream struct {
	mu     sync.Mutex
	pcm    []byte
	pos    int
	volume float64
	left   float64
	right  float64
}

func newPannedStream(pcm []byte, volume float64) *pannedStream {
	return &pannedStream{
		pcm:    pcm[:len(pcm)/frameBytes*frameBytes],
		volume: volume,
	}
}

// SetGains sets the channel gains applied to subsequent reads
func (s *pannedStream) SetGains(left, right float64) {
	s.mu.Lock()
	s.left, s.right = left, right
	s.mu.Unlock()
}

func (s *pannedStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(p) / frameBytes * frameBytes
	if len(s.pcm) == 0 {
		clear(p[:n])
		return n, nil
	}

	left := s.left * s.volume
	right := s.right * s.volume
	for i := 0; i < n; i += frameBytes {
		l := int16(binary.LittleEndian.Uint16(s.pcm[s.pos:]))
		r := int16(binary.LittleEndian.Uint16(s.pcm[s.pos+sampleBytes:]))
		binary.LittleEndian.PutUint16(p[i:], uint16(scaleSample(l, left)))
		binary.LittleEndian.PutUint16(p[i+sampleBytes:], uint16(scaleSample(r, right)))

		s.pos += frameBytes
		if s.pos >= len(s.pcm) {
			s.pos = 0
		}
	}
	return n, nil
}

// Seek only answers the zero-offset probes ebiten's player issues
func (s *pannedStream) Seek(offset int64, whence int) (int64, error) {
	if offset == 0 {
		switch whence {
		case io.SeekStart, io.SeekCurrent, io.SeekEnd:
			return 0, nil
		}
	}
	return 0, io.ErrUnexpectedEOF
}

func scaleSample(v int16, gain float64) int16 {
	scaled := math.Round(float64(v) * gain)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}
