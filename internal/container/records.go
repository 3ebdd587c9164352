// SPDX-License-Identifier: MPL-2.0

package container

import (
	"errors"
	"fmt"
	"strings"
)

const (
	imageFieldCount     = 7
	containerFieldCount = 12

	noneValue = "<none>"
)

// ErrMalformedRow is the sentinel error wrapped by MalformedRowError.
var ErrMalformedRow = errors.New("malformed output row")

type (
	// Image is one row of the engine's image listing.
	Image struct {
		ID           string
		Repository   string
		Tag          string
		Digest       string
		CreatedSince string
		CreatedAt    string
		Size         string
	}

	// Container is one row of the engine's container listing.
	Container struct {
		ID         string
		Image      string
		Command    string
		CreatedAt  string
		RunningFor string
		Ports      string
		Status     string
		Size       string
		Names      string
		Labels     string
		Mounts     string
		Networks   string
	}

	// MalformedRowError reports an output row whose field count did not match
	// the requested format.
	MalformedRowError struct {
		// Row is the 1-based line number within the command output.
		Row  int
		Line string
		Want int
		Got  int
	}

	// ImageListing is the result of listing images.
	ImageListing struct {
		Images    []Image
		Malformed []*MalformedRowError
	}

	// ContainerListing is the result of listing containers.
	ContainerListing struct {
		Containers []Container
		Malformed  []*MalformedRowError
	}
)

// Error implements the error interface.
func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: expected %d tab-separated fields, got %d: %q", e.Row, e.Want, e.Got, e.Line)
}

// Unwrap returns ErrMalformedRow for errors.Is() compatibility.
func (e *MalformedRowError) Unwrap() error { return ErrMalformedRow }

// ParseImageRow parses one line of ImageFormat output.
func ParseImageRow(row int, line string) (Image, *MalformedRowError) {
	f, err := splitRow(row, line, imageFieldCount)
	if err != nil {
		return Image{}, err
	}
	return Image{
		ID:           f[0],
		Repository:   f[1],
		Tag:          f[2],
		Digest:       f[3],
		CreatedSince: f[4],
		CreatedAt:    f[5],
		Size:         f[6],
	}, nil
}

// ParseContainerRow parses one line of ContainerFormat output.
func ParseContainerRow(row int, line string) (Container, *MalformedRowError) {
	f, err := splitRow(row, line, containerFieldCount)
	if err != nil {
		return Container{}, err
	}
	return Container{
		ID:         f[0],
		Image:      f[1],
		Command:    f[2],
		CreatedAt:  f[3],
		RunningFor: f[4],
		Ports:      f[5],
		Status:     f[6],
		Size:       f[7],
		Names:      f[8],
		Labels:     f[9],
		Mounts:     f[10],
		Networks:   f[11],
	}, nil
}

func splitRow(row int, line string, want int) ([]string, *MalformedRowError) {
	fields := strings.Split(line, "\t")
	if len(fields) != want {
		return nil, &MalformedRowError{Row: row, Line: line, Want: want, Got: len(fields)}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}

// String renders the image as the tab-separated row it was parsed from.
func (i Image) String() string {
	return strings.Join([]string{i.ID, i.Repository, i.Tag, i.Digest, i.CreatedSince, i.CreatedAt, i.Size}, "\t")
}

// Reference returns "repository:tag", or the image ID for dangling images.
func (i Image) Reference() string {
	if i.Repository == "" || i.Repository == noneValue {
		return i.ID
	}
	if i.Tag == "" || i.Tag == noneValue {
		return i.Repository
	}
	return i.Repository + ":" + i.Tag
}

// IsDangling reports whether the image has neither repository nor tag.
func (i Image) IsDangling() bool {
	return (i.Repository == "" || i.Repository == noneValue) && (i.Tag == "" || i.Tag == noneValue)
}

// String renders the container as a tab-separated row.
func (c Container) String() string {
	return strings.Join([]string{
		c.ID, c.Image, c.Command, c.CreatedAt, c.RunningFor, c.Ports,
		c.Status, c.Size, c.Names, c.Labels, c.Mounts, c.Networks,
	}, "\t")
}

// IsRunning reports whether the status column describes a running container.
func (c Container) IsRunning() bool {
	return strings.HasPrefix(c.Status, "Up")
}
