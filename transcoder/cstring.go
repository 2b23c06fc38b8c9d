package transcoder

import (
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/jseval/errors"
)

// cBytes returns the bytes of the NUL-terminated string at p, without the
// terminator. The slice aliases caller memory.
func cBytes(p unsafe.Pointer, path []string) ([]byte, error) {
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
		if n > MaxStringSize {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidArgument).
				Path(path...).Detail("string exceeds %d bytes or is not terminated", MaxStringSize).Build()
		}
	}
	return unsafe.Slice((*byte)(p), n), nil
}

// repairUTF8 copies b into a Go string, replacing invalid sequences with
// U+FFFD. The second result reports whether any repair happened.
func repairUTF8(b []byte) (string, bool) {
	if utf8.Valid(b) {
		return string(b), false
	}
	fixed, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		// the UTF-8 decoder only replaces, it never fails on content
		return string([]rune(string(b))), true
	}
	return string(fixed), true
}

// writeCString copies s plus a terminating NUL into dst, which must hold
// len(s)+1 bytes. Interior NULs are copied as-is; a C reader sees only the
// prefix before the first one.
func writeCString(dst unsafe.Pointer, s string) {
	buf := unsafe.Slice((*byte)(dst), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
}
