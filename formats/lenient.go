package formats

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The numeric types below accept whatever the menus happen to write: plain
// numbers, numbers in strings, booleans and null. Anything unparseable
// decodes as zero instead of failing the whole file.

type Int int

type Uint32 uint32

type Float32 float32

type Bool bool

// lenientText reduces a raw JSON value to the text of a number
func lenientText(data []byte) string {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false", "":
		return "0"
	case "true":
		return "1"
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "0"
		}
		s = strings.TrimSpace(s)
		switch strings.ToLower(s) {
		case "true":
			return "1"
		case "false", "":
			return "0"
		}
		return s
	}

	return string(data)
}

func parseLenientInt(data []byte) int64 {
	text := lenientText(data)
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		return int64(v)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f)
	}
	return 0
}

func (v *Int) UnmarshalJSON(data []byte) error {
	*v = Int(parseLenientInt(data))
	return nil
}

// UnmarshalJSON also accepts hashes written as signed 32-bit values
func (v *Uint32) UnmarshalJSON(data []byte) error {
	*v = Uint32(uint32(parseLenientInt(data)))
	return nil
}

func (v *Float32) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(lenientText(data), 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	*v = Float32(f)
	return nil
}

func (v *Bool) UnmarshalJSON(data []byte) error {
	*v = parseLenientInt(data) != 0
	return nil
}

// parseStandInt is the line format's counterpart: leading integer or zero
func parseStandInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}
