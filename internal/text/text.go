// Package text holds the byte-level helpers shared by the scanner, the parser
// and the printer. Nothing here allocates.
package text

// Copy copies src into dst as a NUL terminated string, writing at most
// len(dst)-1 bytes of src. It returns len(src); a return value >= len(dst)
// means the copy was truncated.
func Copy(dst []byte, src string) int {
	if len(dst) == 0 {
		return len(src)
	}

	n := min(len(src), len(dst)-1)
	copy(dst, src[:n])
	dst[n] = 0

	return len(src)
}

// Concat appends src to the NUL terminated string held in dst, never writing
// past len(dst)-1 bytes of content. It returns the length of the string it
// tried to create.
func Concat(dst []byte, src string) int {
	if len(dst) == 0 {
		return len(src)
	}

	limit := len(dst) - 1
	n := 0
	for n < limit && dst[n] != 0 {
		n++
	}

	i := 0
	for i < len(src) && n < limit {
		dst[n] = src[i]
		n++
		i++
	}
	dst[n] = 0

	return n + len(src) - i
}

// Len returns the length of the NUL terminated string held in b.
func Len(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return len(b)
}

// Nibble decodes a single hexadecimal digit.
func Nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return 0xa + c - 'a', true
	case c >= 'A' && c <= 'F':
		return 0xa + c - 'A', true
	}
	return 0xFF, false
}

// Hex4 decodes exactly four hexadecimal digits.
func Hex4(b []byte) (uint32, bool) {
	if len(b) < 4 {
		return 0, false
	}

	var x uint32
	for _, c := range b[:4] {
		n, ok := Nibble(c)
		if !ok {
			return 0, false
		}
		x = x<<4 | uint32(n)
	}
	return x, true
}

// IsNumberChar reports whether c may appear in a number token.
func IsNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == 'e' || c == 'E' || c == '.'
}

// IsDecimalOrExponent reports whether c turns a number token into a real.
func IsDecimalOrExponent(c byte) bool {
	return c == '.' || c == 'e' || c == 'E'
}

// IsSpace matches the C locale isspace set.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// IsPrint matches the C locale isprint set.
func IsPrint(c byte) bool {
	return c >= 0x20 && c < 0x7f
}

// ParseUint parses b as an unsigned decimal integer. The whole span must be
// digits and the value must fit in 64 bits.
func ParseUint(b []byte) (uint64, bool) {
	if len(b) == 0 {
		return 0, false
	}

	var x uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := uint64(c - '0')
		if x > (^uint64(0)-d)/10 {
			return 0, false
		}
		x = x*10 + d
	}
	return x, true
}

// Split cuts b around every sep into at most max segments. The segments alias
// b. It reports false when b holds more than max segments.
func Split(b []byte, sep byte, max int) ([][]byte, bool) {
	segs := make([][]byte, 0, min(max, 8))

	start := 0
	for i := 0; i <= len(b); i++ {
		if i < len(b) && b[i] != sep {
			continue
		}
		if len(segs) == max {
			return nil, false
		}
		segs = append(segs, b[start:i])
		start = i + 1
	}

	return segs, true
}
