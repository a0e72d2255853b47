package formats

import (
	"bytes"
	"regexp"
)

var cheraxTag = regexp.MustCompile(`"format"\s*:\s*"Cherax Entity"`)

// DetectFormat classifies content by schema-unique markers. Rules are tried
// in order and the first hit wins.
func DetectFormat(data []byte) Format {
	data, err := Normalize(data)
	if err != nil {
		return Unknown
	}

	switch {
	case cheraxTag.Match(data):
		return Cherax
	case bytes.Contains(data, []byte(`"blend_data"`)):
		return YimMenu
	case bytes.Contains(data, []byte(`"component variation"`)):
		return Lexis
	case bytes.Contains(data, []byte("Model:")) && bytes.Contains(data, []byte("Hair Colour")):
		return Stand
	}
	return Unknown
}
