// Package source loads the displayed image from a file or from stdin.
package source

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"time"
)

// StdinArg is the path argument that selects reading from stdin.
const StdinArg = "-"

// Source identifies where the image comes from. A stdin source can be
// read exactly once; reload requests against it are ignored by the loop.
type Source struct {
	path  string
	stdin bool
}

// New interprets the positional path argument.
func New(arg string) *Source {
	if arg == StdinArg {
		return &Source{stdin: true}
	}
	return &Source{path: arg}
}

// IsStdin reports whether the source is the one-shot stdin stream.
func (s *Source) IsStdin() bool {
	return s.stdin
}

// Path returns the file path, or "-" for stdin.
func (s *Source) Path() string {
	if s.stdin {
		return StdinArg
	}
	return s.path
}

// Load decodes the PNG and returns it as an RGBA buffer. For a file
// source this re-reads the file, so it is also the reload primitive.
func (s *Source) Load() (*image.RGBA, error) {
	if s.stdin {
		return decode(os.Stdin)
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return img, nil
}

// ModTime stats the backing file and returns its modification time.
// Stdin sources have no modification time and always return the zero time.
func (s *Source) ModTime() (time.Time, error) {
	if s.stdin {
		return time.Time{}, nil
	}
	fi, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return fi.ModTime(), nil
}

func decode(r io.Reader) (*image.RGBA, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
