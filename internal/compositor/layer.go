package compositor

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xgraphics"
)

// Layer is one rectangular, z-ordered visual element backed by a
// server-side pixmap. It is either fully detached (unmapped) or fully
// attached (mapped at its current position); the in-between states only
// exist inside an unsubmitted batch.
type Layer struct {
	sess   *Session
	win    xproto.Window
	ximg   *xgraphics.Image
	zIndex int

	width  int
	height int
	x      int
	y      int

	attached  bool
	destroyed bool
}

// NewLayer allocates the window and uploads the image's pixels into its
// backing pixmap. The layer does not appear on screen until it is
// attached through a batch.
//
// Layers must be attached in ascending z-index order; attaching restacks
// the element above everything already attached.
func NewLayer(s *Session, img *image.RGBA, zIndex int) (*Layer, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	win, err := s.createOverrideRedirectWindow(width, height)
	if err != nil {
		return nil, err
	}

	ximg := xgraphics.NewConvert(s.xu, img)
	if err := ximg.XSurfaceSet(win); err != nil {
		ximg.Destroy()
		xproto.DestroyWindow(s.xu.Conn(), win)
		return nil, fmt.Errorf("%w: set backing surface: %v", ErrResourceUpload, err)
	}
	ximg.XDraw()

	return &Layer{
		sess:   s,
		win:    win,
		ximg:   ximg,
		zIndex: zIndex,
		width:  width,
		height: height,
	}, nil
}

// ZIndex returns the layer's configured z-index.
func (l *Layer) ZIndex() int {
	return l.zIndex
}

// Size returns the layer's element size, fixed at creation.
func (l *Layer) Size() (width, height int) {
	return l.width, l.height
}

// Position returns the layer's current offset in display pixel space.
func (l *Layer) Position() (x, y int) {
	return l.x, l.y
}

// Attach queues an add-element operation: place the layer at (x, y) with
// its image size, full opacity, on top of previously attached layers.
func (l *Layer) Attach(b *Batch, x, y int) {
	l.x, l.y = x, y
	b.add(func() error {
		if err := l.sess.configureWindow(l.win, l.x, l.y, l.width, l.height); err != nil {
			return err
		}
		if err := xproto.MapWindowChecked(l.sess.xu.Conn(), l.win).Check(); err != nil {
			return fmt.Errorf("%w: map window: %v", ErrCompositor, err)
		}
		l.ximg.XPaint(l.win)
		l.attached = true
		return nil
	})
}

// Move queues a change-element-position operation. Size is unchanged.
func (l *Layer) Move(b *Batch, x, y int) {
	l.x, l.y = x, y
	b.add(func() error {
		return l.sess.moveWindow(l.win, l.x, l.y)
	})
}

// ReplaceSource uploads a fresh pixel buffer into the existing backing
// resource in place; no batch element is created or resized. A source
// with different dimensions is clipped (or padded) to the element size;
// the element never moves or resizes on reload.
func (l *Layer) ReplaceSource(img *image.RGBA) error {
	if l.destroyed || l.ximg == nil {
		return fmt.Errorf("%w: layer has no backing resource", ErrResourceUpload)
	}

	draw.Draw(l.ximg, l.ximg.Bounds(), img, img.Bounds().Min, draw.Src)
	l.ximg.XDraw()
	if l.attached {
		l.ximg.XPaint(l.win)
	}
	return nil
}

// Destroy releases the pixmap and the window. Must be called exactly
// once; the second call is an error.
func (l *Layer) Destroy() error {
	if l.destroyed {
		return fmt.Errorf("%w: layer already destroyed", ErrCompositor)
	}
	l.destroyed = true
	l.attached = false

	l.ximg.Destroy()
	l.ximg = nil
	xproto.DestroyWindow(l.sess.xu.Conn(), l.win)
	l.win = 0
	return nil
}
