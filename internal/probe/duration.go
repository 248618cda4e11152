package probe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"
)

// ErrUnparsable marks audio whose duration could not be read from its
// container. It is distinct from transport failures so the forms can show
// the right message.
var ErrUnparsable = errors.New("could not read duration from audio metadata")

// durationOfFile computes the duration in seconds of a downloaded audio
// file. Format comes from the URL's extension; when there is none the file
// header is sniffed.
func durationOfFile(path, sourceURL string) (int, error) {
	ext := strings.ToLower(filepath.Ext(urlPath(sourceURL)))
	if ext == "" {
		ext = sniffFormat(path)
	}

	switch ext {
	case ".mp3":
		return durationMP3(path)
	case ".flac":
		return durationFLAC(path)
	case ".wav":
		return durationWAV(path)
	case ".m4a", ".mp4", ".aac":
		return durationM4A(path)
	default:
		return 0, fmt.Errorf("%w: unsupported format %q", ErrUnparsable, ext)
	}
}

// sniffFormat identifies a file lacking a usable extension via its tags.
func sniffFormat(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	_, fileType, err := tag.Identify(f)
	if err != nil {
		return ""
	}
	switch fileType {
	case tag.MP3:
		return ".mp3"
	case tag.FLAC:
		return ".flac"
	case tag.M4A, tag.M4B, tag.M4P:
		return ".m4a"
	default:
		return ""
	}
}

// MP3 duration using frame decoding; fall back to average bitrate
// estimation only if no frame decodes at all.
func durationMP3(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := mp3.NewDecoder(f)
	var total float64
	var skipped int
	frames := 0
	for {
		var fr mp3.Frame
		if err := dec.Decode(&fr, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if frames == 0 {
				return estimateFromFileSize(path, 192000) // assume 192 kbps
			}
			break // partial decode; use what we have
		}
		total += fr.Duration().Seconds()
		frames++
	}
	if frames == 0 {
		return 0, fmt.Errorf("%w: no mp3 frames", ErrUnparsable)
	}
	return int(total + 0.5), nil
}

// FLAC duration via STREAMINFO metadata block.
func durationFLAC(path string) (int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	si := stream.Info
	if si.NSamples > 0 && si.SampleRate > 0 {
		secs := float64(si.NSamples) / float64(si.SampleRate)
		return int(secs + 0.5), nil
	}
	return 0, fmt.Errorf("%w: flac stream missing sample info", ErrUnparsable)
}

// WAV duration using go-audio/wav to read the header, approximating the
// sample count from the file size.
func durationWAV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%w: invalid wav file", ErrUnparsable)
	}
	if dec.SampleRate == 0 || dec.BitDepth == 0 || dec.NumChans == 0 {
		return 0, fmt.Errorf("%w: invalid wav header", ErrUnparsable)
	}

	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	headerSize := int64(44)
	pcmBytes := st.Size() - headerSize
	if pcmBytes < 0 {
		pcmBytes = 0
	}
	bytesPerSampleFrame := int64(dec.BitDepth/8) * int64(dec.NumChans)
	if bytesPerSampleFrame <= 0 {
		return 0, fmt.Errorf("%w: invalid sample frame size", ErrUnparsable)
	}
	sampleFrames := pcmBytes / bytesPerSampleFrame
	secs := float64(sampleFrames) / float64(dec.SampleRate)
	return int(secs + 0.5), nil
}

// M4A (AAC in MP4) minimal duration parsing: read the 'mvhd' timescale and
// duration with a manual atom scan. Best-effort.
func durationM4A(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	for {
		head := make([]byte, 8)
		if _, err := io.ReadFull(f, head); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
		}
		size := binary.BigEndian.Uint32(head[0:4])
		atom := string(head[4:8])
		if size < 8 {
			return 0, fmt.Errorf("%w: invalid atom size", ErrUnparsable)
		}
		if atom == "moov" {
			limit := int64(size) - 8
			for read := int64(0); read < limit; {
				subHead := make([]byte, 8)
				if _, err := io.ReadFull(f, subHead); err != nil {
					return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
				}
				subSize := binary.BigEndian.Uint32(subHead[0:4])
				subAtom := string(subHead[4:8])
				if subAtom == "mvhd" {
					version := make([]byte, 1)
					if _, err := io.ReadFull(f, version); err != nil {
						return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
					}
					var skip int64
					if version[0] == 1 { // 64-bit times
						skip = 3 + 8 + 8
					} else {
						skip = 3 + 4 + 4
					}
					if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
						return 0, err
					}
					tsBuf := make([]byte, 4)
					if _, err := io.ReadFull(f, tsBuf); err != nil {
						return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
					}
					timescale := binary.BigEndian.Uint32(tsBuf)
					var durUnits uint64
					if version[0] == 1 {
						durBuf := make([]byte, 8)
						if _, err := io.ReadFull(f, durBuf); err != nil {
							return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
						}
						durUnits = binary.BigEndian.Uint64(durBuf)
					} else {
						durBuf := make([]byte, 4)
						if _, err := io.ReadFull(f, durBuf); err != nil {
							return 0, fmt.Errorf("%w: %v", ErrUnparsable, err)
						}
						durUnits = uint64(binary.BigEndian.Uint32(durBuf))
					}
					if timescale == 0 {
						return 0, fmt.Errorf("%w: invalid timescale", ErrUnparsable)
					}
					secs := float64(durUnits) / float64(timescale)
					return int(secs + 0.5), nil
				}
				if subSize < 8 {
					return 0, fmt.Errorf("%w: invalid sub-atom size", ErrUnparsable)
				}
				if _, err := f.Seek(int64(subSize)-8, io.SeekCurrent); err != nil {
					return 0, err
				}
				read += int64(subSize)
			}
			break
		}
		if _, err := f.Seek(int64(size)-8, io.SeekCurrent); err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: mvhd atom not found", ErrUnparsable)
}

// estimateFromFileSize provides last-resort estimation if parsing fails.
func estimateFromFileSize(path string, bitrate int) (int, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if bitrate <= 0 {
		return 0, fmt.Errorf("invalid bitrate")
	}
	dur := (st.Size() * 8) / int64(bitrate)
	return int(dur), nil
}

func urlPath(raw string) string {
	if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		return raw[:idx]
	}
	return raw
}
