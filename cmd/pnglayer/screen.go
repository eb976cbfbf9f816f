package main

import (
	"github.com/pnglayer/pnglayer/internal/compositor"
	"github.com/pnglayer/pnglayer/internal/source"
)

// layerScreen adapts the session/layer pair to the viewer loop: every
// move is one atomic batch, every reload is a fresh decode swapped into
// the existing layer resource.
type layerScreen struct {
	sess  *compositor.Session
	layer *compositor.Layer
	src   *source.Source
}

func (s *layerScreen) Move(x, y int) error {
	batch := s.sess.Begin()
	s.layer.Move(batch, x, y)
	return s.sess.Submit(batch)
}

func (s *layerScreen) Reload() error {
	img, err := s.src.Load()
	if err != nil {
		return err
	}
	return s.layer.ReplaceSource(img)
}
