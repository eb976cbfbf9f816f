package compositor

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Background is a degenerate layer: one solid-color window covering the
// full output, attached beneath all image layers. It has no pixmap; the
// color lives in the window's back pixel.
type Background struct {
	sess      *Session
	win       xproto.Window
	color     uint16
	destroyed bool
}

// NewBackground creates the unmapped full-output window. color is the
// 16-bit packed RGBA value from the command line (0x000F = opaque black).
func NewBackground(s *Session, color uint16) (*Background, error) {
	win, err := s.createOverrideRedirectWindow(s.output.Width, s.output.Height)
	if err != nil {
		return nil, err
	}

	err = xproto.ChangeWindowAttributesChecked(
		s.xu.Conn(),
		win,
		xproto.CwBackPixel,
		[]uint32{pixelFromRGBA16(color)},
	).Check()
	if err != nil {
		xproto.DestroyWindow(s.xu.Conn(), win)
		return nil, fmt.Errorf("%w: set background color: %v", ErrCompositor, err)
	}

	return &Background{sess: s, win: win, color: color}, nil
}

// Attach queues an add-element operation covering the full output at
// (0,0). Attach the background before any image layer so it ends up at
// the bottom of the stack.
func (g *Background) Attach(b *Batch) {
	b.add(func() error {
		if err := g.sess.configureWindow(g.win, 0, 0, g.sess.output.Width, g.sess.output.Height); err != nil {
			return err
		}
		if err := xproto.MapWindowChecked(g.sess.xu.Conn(), g.win).Check(); err != nil {
			return fmt.Errorf("%w: map background: %v", ErrCompositor, err)
		}
		return nil
	})
}

// Destroy releases the window. Must be called exactly once.
func (g *Background) Destroy() error {
	if g.destroyed {
		return fmt.Errorf("%w: background already destroyed", ErrCompositor)
	}
	g.destroyed = true
	xproto.DestroyWindow(g.sess.xu.Conn(), g.win)
	g.win = 0
	return nil
}

// pixelFromRGBA16 expands a 16-bit packed RGBA color (4 bits per channel,
// alpha in the low nibble) to a 24-bit X pixel value. Each nibble is
// replicated into a full byte (0xF → 0xFF). Core X has no per-window
// alpha; the alpha nibble only matters as part of the >0 gate that
// decides whether a background panel exists at all.
func pixelFromRGBA16(c uint16) uint32 {
	r := uint32(c>>12) & 0xF
	g := uint32(c>>8) & 0xF
	b := uint32(c>>4) & 0xF
	return (r*0x11)<<16 | (g*0x11)<<8 | (b * 0x11)
}
