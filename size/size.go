/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package size provides a byte-count type with human-readable formatting,
// used throughout the module wherever a buffer, body, or file size is
// configured (line buffers, max request size, ACME file caps).
package size

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is a byte count. Arithmetic saturates at math.MaxUint64 instead of
// wrapping, since a wrapped buffer size would silently become tiny.
type Size uint64

const (
	SizeKilo Size = 1 << (10 * (iota + 1))
	SizeMega
	SizeGiga
	SizeTera
)

// SizeFromInt builds a Size from an int, clamping negative values to zero.
func SizeFromInt(n int) Size {
	if n < 0 {
		return 0
	}
	return Size(n)
}

func (s Size) Uint64() uint64 { return uint64(s) }
func (s Size) Int() int       { return int(s) }
func (s Size) Int64() int64   { return int64(s) }

func (s Size) Add(o Size) Size {
	if uint64(o) > math.MaxUint64-uint64(s) {
		return Size(math.MaxUint64)
	}
	return s + o
}

func (s Size) Sub(o Size) Size {
	if o > s {
		return 0
	}
	return s - o
}

func (s Size) Multiply(factor uint64) Size {
	if factor != 0 && uint64(s) > math.MaxUint64/factor {
		return Size(math.MaxUint64)
	}
	return Size(uint64(s) * factor)
}

func (s Size) Divide(factor uint64) Size {
	if factor == 0 {
		return Size(math.MaxUint64)
	}
	return Size(uint64(s) / factor)
}

// Unit returns the largest byte-multiple unit that s is at least 1 of.
func (s Size) Unit() string {
	switch {
	case s >= SizeTera:
		return "TB"
	case s >= SizeGiga:
		return "GB"
	case s >= SizeMega:
		return "MB"
	case s >= SizeKilo:
		return "KB"
	default:
		return "B"
	}
}

// Code is an alias of Unit kept for call sites that read better as "Code()".
func (s Size) Code() string {
	return s.Unit()
}

func (s Size) KiloBytes() uint64 { return uint64(s / SizeKilo) }
func (s Size) MegaBytes() uint64 { return uint64(s / SizeMega) }
func (s Size) GigaBytes() uint64 { return uint64(s / SizeGiga) }
func (s Size) TeraBytes() uint64 { return uint64(s / SizeTera) }

// Format renders s with the given number of decimals in its natural unit.
func (s Size) Format(decimals int) string {
	var (
		div  float64
		unit = s.Unit()
	)

	switch unit {
	case "TB":
		div = float64(SizeTera)
	case "GB":
		div = float64(SizeGiga)
	case "MB":
		div = float64(SizeMega)
	case "KB":
		div = float64(SizeKilo)
	default:
		return fmt.Sprintf("%d B", uint64(s))
	}

	return fmt.Sprintf("%.*f %s", decimals, float64(s)/div, unit)
}

func (s Size) String() string {
	if s < SizeKilo {
		return strconv.FormatUint(uint64(s), 10)
	}
	return s.Format(2)
}

// Parse accepts a plain integer byte count or a "<num><unit>" string
// (KB/MB/GB/TB, case-insensitive) and returns the equivalent Size.
func Parse(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("size: empty value")
	}

	upper := strings.ToUpper(s)
	units := []struct {
		suffix string
		mult   Size
	}{
		{"TB", SizeTera},
		{"GB", SizeGiga},
		{"MB", SizeMega},
		{"KB", SizeKilo},
		{"B", 1},
	}

	for _, u := range units {
		if strings.HasSuffix(upper, u.suffix) {
			numPart := strings.TrimSpace(s[:len(s)-len(u.suffix)])
			if numPart == "" {
				continue
			}
			f, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, err
			}
			return Size(f * float64(u.mult)), nil
		}
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Size(n), nil
}

// MarshalText implements encoding.TextMarshaler for config/JSON round-trips.
func (s Size) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(s), 10)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting either a plain
// integer or a "<num><unit>" string.
func (s *Size) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
