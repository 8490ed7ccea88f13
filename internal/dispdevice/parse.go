package dispdevice

import (
	"math"
	"strconv"
	"strings"
)

const (
	chunkSize   = 29 // 1 index token + 4 datasets of 7 fields
	datasetSize = 7
	datasetsPerChunk = 4
)

// dataset is one parsed 7-field reading before it is assigned a final
// dataset index.
type dataset struct {
	LEDGreen       int
	LEDRed         int
	CurrentGreen   int
	CurrentRed     int
	OffCurrentGreen int
	OffCurrentRed  int
	Temperature    int
}

// tokenize splits payload on newlines then on '|', trimming whitespace
// and discarding empty tokens, per §4.4.
func tokenize(payload []byte) []string {
	var tokens []string
	for _, line := range strings.Split(string(payload), "\n") {
		for _, tok := range strings.Split(line, "|") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// parseChunks consumes the flattened token list in repeating chunks of
// chunkSize, returning every complete 7-token dataset with its final
// dataset_index already assigned. A trailing dataset with fewer than 7
// tokens, and the rest of its chunk, is skipped.
func parseChunks(tokens []string) []indexedDataset {
	var out []indexedDataset

	pos := 0
	for pos < len(tokens) {
		indexNo, err := strconv.Atoi(tokens[pos])
		if err != nil {
			return out // malformed index token: nothing further to salvage
		}
		pos++

		exhausted := false
		for i := 0; i < datasetsPerChunk; i++ {
			if pos+datasetSize > len(tokens) {
				exhausted = true // remaining datasets of this chunk are skipped
				break
			}
			ds := parseDataset(tokens[pos : pos+datasetSize])
			pos += datasetSize
			out = append(out, indexedDataset{
				index:   datasetsPerChunk*(indexNo-1) + i,
				dataset: ds,
			})
		}
		if exhausted {
			break
		}
	}

	return out
}

type indexedDataset struct {
	index   int
	dataset dataset
}

// parseDataset parses one 7-token window in order: led_g_raw, led_r_raw,
// cur_g, cur_r, cur_off_g, cur_off_r, temp_raw. led_* is integer-divided
// by 10; temp is sign-extended from a 32-bit field and offset-scaled.
func parseDataset(tok []string) dataset {
	return dataset{
		LEDGreen:        parseInt(tok[0]) / 10,
		LEDRed:          parseInt(tok[1]) / 10,
		CurrentGreen:    parseInt(tok[2]),
		CurrentRed:      parseInt(tok[3]),
		OffCurrentGreen: parseInt(tok[4]),
		OffCurrentRed:   parseInt(tok[5]),
		Temperature:     temperature(tok[6]),
	}
}

func parseInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

// temperature sign-extends raw as a 32-bit value (bit 31 is the sign)
// and applies the offset-scale transform: round((v - 400) / 10.0).
func temperature(raw string) int {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		v = 0 // an unparsable field reads as 0 and is transformed like any other
	}
	signed := int32(uint32(v))
	return int(math.Round((float64(signed) - 400) / 10.0))
}
