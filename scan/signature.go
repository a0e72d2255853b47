package scan

import (
	"strconv"
	"strings"

	"outfitmem/process"
)

// ParseSignature turns an IDA-style signature ("48 8B 05 ? ? ? ?") into an AOB.
// "?" and "??" are wildcards. Tokens that are not two hex digits are also
// treated as wildcards rather than rejected.
func ParseSignature(sig string) process.AOB {
	tokens := strings.Fields(sig)

	aob := process.AOB{
		Pattern: make([]byte, 0, len(tokens)),
		Mask:    make([]byte, 0, len(tokens)),
	}

	for _, tok := range tokens {
		if tok == "?" || tok == "??" || len(tok) != 2 {
			aob.Pattern = append(aob.Pattern, 0)
			aob.Mask = append(aob.Mask, 0x00)
			continue
		}

		b, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			aob.Pattern = append(aob.Pattern, 0)
			aob.Mask = append(aob.Mask, 0x00)
			continue
		}

		aob.Pattern = append(aob.Pattern, byte(b))
		aob.Mask = append(aob.Mask, 0xFF)
	}

	return aob
}
