package capture

import (
	"encoding/binary"
	"math"
)

// Level возвращает RMS чанка PCM16 LE в диапазоне [0, 1].
func Level(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / math.MaxInt16
		sum += v * v
	}

	rms := math.Sqrt(sum / float64(n))
	if rms > 1 {
		rms = 1
	}
	return rms
}

// Samples декодирует PCM16 LE в int16.
func Samples(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return out
}

// Encode кодирует int16 в PCM16 LE.
func Encode(samples []int16, dst []byte) []byte {
	if cap(dst) < len(samples)*2 {
		dst = make([]byte, len(samples)*2)
	}
	dst = dst[:len(samples)*2]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
	}
	return dst
}
