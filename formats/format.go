// Package formats reads and writes the outfit files produced by the Cherax,
// YimMenu, Lexis and Stand menus and converts between them through the
// canonical outfit model.
package formats

import (
	"errors"
	"strings"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "formats"))

// ErrUnknownFormat is returned when content matches no known schema or a
// caller names a format that has no adapter.
var ErrUnknownFormat = errors.New("unknown outfit format")

type Format int

const (
	Unknown Format = iota
	Cherax
	YimMenu
	Lexis
	Stand
)

// Formats lists every format with an adapter, in detection order
var Formats = []Format{Cherax, YimMenu, Lexis, Stand}

func (f Format) String() string {
	switch f {
	case Cherax:
		return "cherax"
	case YimMenu:
		return "yimmenu"
	case Lexis:
		return "lexis"
	case Stand:
		return "stand"
	}
	return "unknown"
}

// Extension is the file extension each menu saves with
func (f Format) Extension() string {
	if f == Stand {
		return ".txt"
	}
	return ".json"
}

// ParseFormat accepts a format name case-insensitively, with a few aliases
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cherax":
		return Cherax, nil
	case "yimmenu", "yim":
		return YimMenu, nil
	case "lexis":
		return Lexis, nil
	case "stand":
		return Stand, nil
	}
	return Unknown, ErrUnknownFormat
}
