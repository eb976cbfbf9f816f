// Package compositor drives the X server as a layer compositor: one
// session per physical output, rectangular layers backed by pixmaps,
// and atomic update batches fenced by a server round-trip.
package compositor

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Output describes one active RandR output.
type Output struct {
	Index  int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Session owns the X connection and the geometry of the selected output.
// All layer mutations go through Begin/Submit.
type Session struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	output Output
	closed bool
}

// Open connects to the X server and selects the output with the given
// index. Index 0 falls back to the core screen geometry when RandR is
// not usable.
func Open(displayIndex int) (*Session, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrDisplayUnavailable, err)
	}

	outputs, err := queryOutputs(xu)
	if err != nil || len(outputs) == 0 {
		if displayIndex != 0 {
			xu.Conn().Close()
			return nil, fmt.Errorf("%w: no outputs to satisfy display index %d", ErrDisplayUnavailable, displayIndex)
		}
		outputs = []Output{screenOutput(xu)}
	}

	out, err := pickOutput(outputs, displayIndex)
	if err != nil {
		xu.Conn().Close()
		return nil, err
	}

	return &Session{
		xu:     xu,
		root:   xu.RootWin(),
		output: out,
	}, nil
}

// Geometry returns the selected output's size in pixels, queried once
// at open.
func (s *Session) Geometry() (width, height int) {
	return s.output.Width, s.output.Height
}

// Begin starts a new atomic update batch.
func (s *Session) Begin() *Batch {
	return &Batch{}
}

// Submit applies a batch and blocks until the server has processed every
// queued request, so all visual changes of the batch appear together.
// This round-trip is the loop's only ordering barrier.
func (s *Session) Submit(b *Batch) error {
	if s.closed {
		return fmt.Errorf("%w: submit on closed session", ErrCompositor)
	}
	if err := b.flush(); err != nil {
		return err
	}
	s.xu.Sync()
	return nil
}

// Close disconnects from the server. Closing twice is an error.
func (s *Session) Close() error {
	if s.closed {
		return fmt.Errorf("%w: session already closed", ErrCompositor)
	}
	s.closed = true
	s.xu.Conn().Close()
	return nil
}

// ListOutputs connects, enumerates the active outputs and disconnects.
// Used by --list-displays.
func ListOutputs() ([]Output, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrDisplayUnavailable, err)
	}
	defer xu.Conn().Close()

	outputs, err := queryOutputs(xu)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		outputs = []Output{screenOutput(xu)}
	}
	return outputs, nil
}

// queryOutputs retrieves all active outputs using XRandR.
func queryOutputs(xu *xgbutil.XUtil) ([]Output, error) {
	conn := xu.Conn()

	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("%w: randr init: %v", ErrDisplayUnavailable, err)
	}

	resources, err := randr.GetScreenResources(conn, xu.RootWin()).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: screen resources: %v", ErrDisplayUnavailable, err)
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Output%d", i)
		if outputInfo, err := randr.GetOutputInfo(conn, crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		outputs = append(outputs, Output{
			Index:  len(outputs),
			Name:   name,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return outputs, nil
}

// screenOutput is the core-protocol fallback when RandR reports nothing.
func screenOutput(xu *xgbutil.XUtil) Output {
	screen := xu.Screen()
	return Output{
		Index:  0,
		Name:   "screen",
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}
}

func pickOutput(outputs []Output, index int) (Output, error) {
	if index < 0 || index >= len(outputs) {
		return Output{}, fmt.Errorf("%w: display index %d out of range (have %d outputs)",
			ErrDisplayUnavailable, index, len(outputs))
	}
	return outputs[index], nil
}

// createOverrideRedirectWindow creates a single unmapped window that
// bypasses the window manager, so it behaves like a raw compositor
// element rather than a client window.
func (s *Session) createOverrideRedirectWindow(width, height int) (xproto.Window, error) {
	conn := s.xu.Conn()
	screen := s.xu.Screen()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("%w: allocate window id: %v", ErrCompositor, err)
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		s.root,
		0, 0,
		uint16(width), uint16(height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect,
		// Value list order follows the bit positions of the mask (low → high).
		[]uint32{0, 1}, // back_pixel=black, override_redirect=true
	).Check()
	if err != nil {
		return 0, fmt.Errorf("%w: create window: %v", ErrCompositor, err)
	}

	return wid, nil
}

// configureWindow applies geometry plus a restack-above for a window.
// Negative offsets are legal; they pass through as two's complement.
func (s *Session) configureWindow(wid xproto.Window, x, y, width, height int) error {
	err := xproto.ConfigureWindowChecked(
		s.xu.Conn(),
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(s.output.X + x)),
			uint32(int32(s.output.Y + y)),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove,
		},
	).Check()
	if err != nil {
		return fmt.Errorf("%w: configure window: %v", ErrCompositor, err)
	}
	return nil
}

// moveWindow applies a position-only change.
func (s *Session) moveWindow(wid xproto.Window, x, y int) error {
	err := xproto.ConfigureWindowChecked(
		s.xu.Conn(),
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{
			uint32(int32(s.output.X + x)),
			uint32(int32(s.output.Y + y)),
		},
	).Check()
	if err != nil {
		return fmt.Errorf("%w: move window: %v", ErrCompositor, err)
	}
	return nil
}
