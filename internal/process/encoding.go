// SPDX-License-Identifier: MPL-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for encoding names that are not registered.
var ErrUnknownEncoding = errors.New("unknown encoding")

// lookupEncoding resolves a WHATWG/IANA encoding name. Empty names and UTF-8
// resolve to nil, meaning the stream is passed through untouched.
func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownEncoding, name, err)
	}
	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// ValidateEncoding reports whether name is usable as a stream encoding.
func ValidateEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}

// decodeReader wraps r so that it yields UTF-8 text.
func decodeReader(r io.Reader, enc encoding.Encoding) io.Reader {
	if enc == nil {
		return r
	}
	return transform.NewReader(r, enc.NewDecoder())
}
