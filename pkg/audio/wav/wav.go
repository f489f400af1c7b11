// Package wav decodes RIFF/WAV files into the mono float32 sample format
// consumed by speech recognition.
//
// Only the formats produced by common recording tools are supported: 16-bit
// signed integer PCM and 32-bit IEEE float, any channel count. Multi-channel
// audio is downmixed to mono by averaging. Unknown chunks (LIST, fact,
// bext, ...) are skipped.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Audio formats from the fmt chunk.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

var (
	// ErrNotWAV is returned when the input lacks a RIFF/WAVE header.
	ErrNotWAV = errors.New("wav: not a RIFF/WAVE file")

	// ErrNoData is returned when the file has no data chunk or the data
	// chunk is empty.
	ErrNoData = errors.New("wav: no audio data")
)

// Audio holds decoded audio ready for recognition.
type Audio struct {
	// Samples are mono samples in [-1, 1].
	Samples []float32

	// SampleRate is the sample rate in Hz.
	SampleRate int
}

// Duration returns the audio duration in seconds.
func (a Audio) Duration() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// DecodeFile reads and decodes the WAV file at path.
func DecodeFile(path string) (Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Audio{}, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a WAV stream from r.
func Decode(r io.Reader) (Audio, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Audio{}, ErrNotWAV
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Audio{}, ErrNotWAV
	}

	var (
		audioFormat   uint16
		channels      uint16
		sampleRate    uint32
		bitsPerSample uint16
		haveFmt       bool
	)

	// Walk chunks until the data chunk. The fmt chunk must precede it.
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return Audio{}, ErrNoData
			}
			return Audio{}, fmt.Errorf("read chunk header: %w", err)
		}
		chunkID := string(hdr[0:4])
		chunkSize := binary.LittleEndian.Uint32(hdr[4:8])

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Audio{}, fmt.Errorf("wav: fmt chunk too small (%d bytes)", chunkSize)
			}
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, body); err != nil {
				return Audio{}, fmt.Errorf("read fmt chunk: %w", err)
			}
			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			channels = binary.LittleEndian.Uint16(body[2:4])
			sampleRate = binary.LittleEndian.Uint32(body[4:8])
			bitsPerSample = binary.LittleEndian.Uint16(body[14:16])
			haveFmt = true

		case "data":
			if !haveFmt {
				return Audio{}, errors.New("wav: data chunk before fmt chunk")
			}
			if chunkSize == 0 {
				return Audio{}, ErrNoData
			}
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(r, body); err != nil {
				return Audio{}, fmt.Errorf("read data chunk: %w", err)
			}
			samples, err := decodeSamples(body, audioFormat, bitsPerSample, int(channels))
			if err != nil {
				return Audio{}, err
			}
			return Audio{Samples: samples, SampleRate: int(sampleRate)}, nil

		default:
			// Skip unknown chunks. Chunk bodies are word-aligned.
			skip := int64(chunkSize)
			if chunkSize%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return Audio{}, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}
	}
}

// decodeSamples converts raw data-chunk bytes to mono float32 samples.
func decodeSamples(data []byte, format, bits uint16, channels int) ([]float32, error) {
	if channels < 1 {
		return nil, fmt.Errorf("wav: invalid channel count %d", channels)
	}

	var interleaved []float32
	switch {
	case format == formatPCM && bits == 16:
		n := len(data) / 2
		interleaved = make([]float32, n)
		for i := range n {
			s := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
			interleaved[i] = float32(s) / 32768
		}
	case format == formatIEEEFloat && bits == 32:
		n := len(data) / 4
		interleaved = make([]float32, n)
		for i := range n {
			interleaved[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
		}
	default:
		return nil, fmt.Errorf("wav: unsupported format %d with %d bits per sample", format, bits)
	}

	if len(interleaved) == 0 {
		return nil, ErrNoData
	}
	if channels == 1 {
		return interleaved, nil
	}

	// Downmix by averaging channels per frame.
	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono, nil
}
