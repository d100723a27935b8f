// Package adpcm decodes the 4-bit ADPCM variant used by the game's
// sound effect bank into 16-bit linear PCM.
package adpcm

import "errors"

// StepTableSize is the number of quantization steps the codec knows.
// The step index is clamped to [0, StepTableSize-1] at every point.
const StepTableSize = 89

// SeedSize is the per-stream seed prefix: initial predictor (LE int16),
// initial step index (one byte) and one pad byte.
const SeedSize = 4

// ErrInvalidData reports a compressed stream too short to hold the
// seed, or a malformed step table.
var ErrInvalidData = errors.New("adpcm: invalid data")

// indexAdjust maps a 4-bit code to the step index delta.
var indexAdjust = [16]int{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

// IMAStepTable is the conventional IMA quantization table. The effect
// bank embeds its own table per file; this one is for tools operating
// on bare payloads.
var IMAStepTable = [StepTableSize]int16{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

// Decode converts a compressed stream into interleaved 16-bit samples.
// The first two bytes seed the predictor, the third the step index;
// every following byte carries two codes, low nibble first. Decoding
// stops once channels*sampleCount samples exist or input runs out; a
// short result means truncated input and is returned as-is.
//
// Decode is pure: identical inputs produce byte-identical output.
func Decode(compressed []byte, stepTable []int16, channels int, sampleCount int) ([]int16, error) {
	if len(compressed) < SeedSize {
		return nil, ErrInvalidData
	}
	if len(stepTable) != StepTableSize {
		return nil, ErrInvalidData
	}

	limit := channels * sampleCount
	if limit <= 0 {
		return nil, nil
	}
	// The header's counts are untrusted; the stream itself bounds the
	// output at two codes per payload byte plus the seed sample.
	if most := 1 + 2*(len(compressed)-SeedSize); limit > most {
		limit = most
	}

	predictor := int(int16(uint16(compressed[0]) | uint16(compressed[1])<<8))
	stepIndex := int(compressed[2])
	if stepIndex > StepTableSize-1 {
		stepIndex = StepTableSize - 1
	}

	samples := make([]int16, 0, limit)
	samples = append(samples, int16(predictor))

	for _, b := range compressed[SeedSize:] {
		for _, code := range [2]int{int(b) & 0x0F, int(b) >> 4} {
			if len(samples) >= limit {
				return samples, nil
			}

			step := int(stepTable[stepIndex])
			diff := step >> 3
			if code&1 != 0 {
				diff += step >> 2
			}
			if code&2 != 0 {
				diff += step >> 1
			}
			if code&4 != 0 {
				diff += step
			}
			if code&8 != 0 {
				diff = -diff
			}

			predictor += diff
			if predictor > 32767 {
				predictor = 32767
			} else if predictor < -32768 {
				predictor = -32768
			}
			samples = append(samples, int16(predictor))

			stepIndex += indexAdjust[code]
			if stepIndex < 0 {
				stepIndex = 0
			} else if stepIndex > StepTableSize-1 {
				stepIndex = StepTableSize - 1
			}
		}
	}

	return samples, nil
}
