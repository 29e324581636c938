package view

import (
	"fmt"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

// LightboxParam is the query parameter holding the open image index.
const LightboxParam = "lb"

// Lightbox is the full-screen viewer over one gallery. Navigation wraps at
// both ends.
type Lightbox struct {
	images []domain.Image
	index  int
	open   bool
	anchor string
}

// NewLightbox creates a closed lightbox. Images without a source are dropped.
func NewLightbox(images []domain.Image) *Lightbox {
	return &Lightbox{images: validImages(images)}
}

// Len returns the number of viewable images.
func (l *Lightbox) Len() int { return len(l.images) }

// Open shows image i and remembers the scroll anchor to restore on Close.
func (l *Lightbox) Open(i int, anchor string) error {
	if i < 0 || i >= len(l.images) {
		return fmt.Errorf("lightbox index %d out of range [0,%d)", i, len(l.images))
	}
	l.index = i
	l.open = true
	l.anchor = anchor
	return nil
}

// Close hides the viewer and returns the anchor saved by Open.
func (l *Lightbox) Close() string {
	anchor := l.anchor
	l.open = false
	l.anchor = ""
	return anchor
}

// IsOpen reports whether the viewer is showing.
func (l *Lightbox) IsOpen() bool { return l.open }

// Index returns the current image index.
func (l *Lightbox) Index() int { return l.index }

// Next advances one image, wrapping from the last to the first.
func (l *Lightbox) Next() {
	if !l.open || len(l.images) == 0 {
		return
	}
	l.index = (l.index + 1) % len(l.images)
}

// Prev steps back one image, wrapping from the first to the last.
func (l *Lightbox) Prev() {
	if !l.open || len(l.images) == 0 {
		return
	}
	l.index = (l.index - 1 + len(l.images)) % len(l.images)
}

// Current returns the image on display.
func (l *Lightbox) Current() (domain.Image, bool) {
	if !l.open || len(l.images) == 0 {
		return domain.Image{}, false
	}
	return l.images[l.index], true
}

// Counter renders the position as "i+1 / N".
func (l *Lightbox) Counter() string {
	return fmt.Sprintf("%d / %d", l.index+1, len(l.images))
}

// NextIndex and PrevIndex return the wrapped neighbours without moving.
func (l *Lightbox) NextIndex() int {
	if len(l.images) == 0 {
		return 0
	}
	return (l.index + 1) % len(l.images)
}

func (l *Lightbox) PrevIndex() int {
	if len(l.images) == 0 {
		return 0
	}
	return (l.index - 1 + len(l.images)) % len(l.images)
}
