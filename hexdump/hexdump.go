// Package hexdump renders memory around signature matches and resolved
// fields: offset column, hex split at the half line, ASCII, and any
// pointer-sized values at the start of each half that land inside a known
// module.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode"

	"outfitmem/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Span marks bytes to highlight, relative to the start of the dumped data.
// Positions where Mask is 0x00 are wildcards and stay unhighlighted.
type Span struct {
	Offset int
	Mask   []byte
}

type Options struct {
	BytesPerLine int

	// Base is the address of data[0], printed in the offset column
	Base process.ProcessMemoryAddress

	Highlight []Span

	// Modules are the ranges a pointer preview must fall in to be shown
	Modules []process.Module

	// MaxLines limits output, 0 for no limit
	MaxLines int

	// Plain disables ANSI colours
	Plain bool
}

func DefaultOptions() Options {
	return Options{BytesPerLine: 16}
}

func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}

	marked := highlighted(len(data), options.Highlight)

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}

		formatLine(writer, data[offset:end], marked[offset:end], options.Base+process.ProcessMemoryAddress(offset), options)
		lineCount++
	}
}

func highlighted(n int, spans []Span) []bool {
	marked := make([]bool, n)
	for _, s := range spans {
		for i, m := range s.Mask {
			pos := s.Offset + i
			if pos >= 0 && pos < n && m != 0 {
				marked[pos] = true
			}
		}
	}
	return marked
}

func (o Options) paint(fg coloransi.ColorCode, s string) string {
	if o.Plain {
		return s
	}
	return coloransi.Foreground(fg, s)
}

func (o Options) mark(s string) string {
	if o.Plain {
		return s
	}
	return coloransi.Color(coloransi.Black, coloransi.Yellow, s)
}

// 0000000140000100  48 8b 05 00 00 00 00 45 | 0f c6 c0 00 00 00 00 00 | H......E ........ | 0x140001000
func formatLine(writer io.Writer, data []byte, marked []bool, addr process.ProcessMemoryAddress, options Options) {
	fmt.Fprint(writer, options.paint(coloransi.Cyan, fmt.Sprintf("%016x", uint64(addr))), "  ")

	half := options.BytesPerLine / 2
	for i := 0; i < options.BytesPerLine; i++ {
		if i == half && options.BytesPerLine >= 8 {
			fmt.Fprint(writer, "| ")
		}
		if i >= len(data) {
			fmt.Fprint(writer, "   ")
			continue
		}

		hex := fmt.Sprintf("%02x", data[i])
		switch {
		case marked[i]:
			hex = options.mark(hex)
		case data[i] == 0:
			hex = options.paint(coloransi.BrightBlack, hex)
		default:
			hex = options.paint(coloransi.Green, hex)
		}
		fmt.Fprint(writer, hex, " ")
	}

	fmt.Fprint(writer, "| ")
	for i, b := range data {
		if i == half && options.BytesPerLine >= 8 {
			fmt.Fprint(writer, " ")
		}
		c := rune(b)
		switch {
		case marked[i] && unicode.IsPrint(c) && c < 0x80:
			fmt.Fprint(writer, options.mark(string(c)))
		case b == 0:
			fmt.Fprint(writer, options.paint(coloransi.BrightBlack, "."))
		case c >= 0x80 || !unicode.IsPrint(c):
			fmt.Fprint(writer, options.paint(coloransi.Red, "."))
		default:
			fmt.Fprint(writer, string(c))
		}
	}

	if ptrs := pointers(data, half, options.Modules); len(ptrs) > 0 {
		fmt.Fprint(writer, " | ", options.paint(coloransi.Yellow, strings.Join(ptrs, " ")))
	}

	fmt.Fprintln(writer)
}

// pointers previews the 8-byte values at the start of each half line
func pointers(data []byte, half int, modules []process.Module) []string {
	if len(modules) == 0 {
		return nil
	}

	var out []string
	for _, at := range []int{0, half} {
		if at+8 > len(data) || (at == half && half < 8) {
			continue
		}
		ptr := process.ProcessMemoryAddress(binary.LittleEndian.Uint64(data[at : at+8]))
		for _, m := range modules {
			if m.Contains(ptr) {
				out = append(out, fmt.Sprintf("0x%x", uint64(ptr)))
				break
			}
		}
	}
	return out
}

// Around reads up to before+after bytes centred on addr, clamped to mod, and
// returns the data with the address of its first byte.
func Around(mem process.Memory, mod process.Module, addr process.ProcessMemoryAddress, before, after int) ([]byte, process.ProcessMemoryAddress, error) {
	start := addr - process.ProcessMemoryAddress(before)
	if before < 0 || addr < mod.Base+process.ProcessMemoryAddress(before) {
		start = mod.Base
	}
	end := addr + process.ProcessMemoryAddress(after)
	modEnd := mod.Base + process.ProcessMemoryAddress(mod.Size)
	if end > modEnd {
		end = modEnd
	}
	if end <= start {
		return nil, start, fmt.Errorf("%s outside %s: %w", addr.ToString(), mod.String(), process.ErrAddressNotMapped)
	}

	data, err := mem.ReadMemory(start, process.ProcessMemorySize(end-start))
	if err != nil {
		return nil, start, err
	}
	return data, start, nil
}
