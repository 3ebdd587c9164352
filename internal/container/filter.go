// SPDX-License-Identifier: MPL-2.0

package container

import (
	"fmt"

	"github.com/gobwas/glob"
)

// ImageFilter matches images against a glob pattern such as "library/*:1.*".
// A single "*" does not cross "/" boundaries; "**" does.
type ImageFilter struct {
	pattern string
	g       glob.Glob
}

// NewImageFilter compiles pattern.
func NewImageFilter(pattern string) (*ImageFilter, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid image filter %q: %w", pattern, err)
	}
	return &ImageFilter{pattern: pattern, g: g}, nil
}

// Match reports whether img matches by reference, by repository alone, or
// by ID.
func (f *ImageFilter) Match(img Image) bool {
	return f.g.Match(img.Reference()) || f.g.Match(img.Repository) || f.g.Match(img.ID)
}

// String returns the source pattern.
func (f *ImageFilter) String() string { return f.pattern }

// FilterImages returns the images matching pattern, in their original order.
// An empty pattern matches everything.
func FilterImages(images []Image, pattern string) ([]Image, error) {
	if pattern == "" {
		return images, nil
	}
	f, err := NewImageFilter(pattern)
	if err != nil {
		return nil, err
	}
	var out []Image
	for _, img := range images {
		if f.Match(img) {
			out = append(out, img)
		}
	}
	return out, nil
}
