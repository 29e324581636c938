package view

import (
	"fmt"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

// DefaultGalleryEmpty is shown in place of a gallery with no images.
const DefaultGalleryEmpty = "사진을 추가하면 여기에 표시됩니다"

// Gallery is the render model of an image grid.
type Gallery struct {
	Images       []GalleryImage
	Empty        bool
	EmptyMessage string
}

// GalleryImage is one tile. Anchor is the element id the lightbox returns to;
// URL opens the lightbox on this image.
type GalleryImage struct {
	domain.Image
	Index  int
	Anchor string
	URL    string
}

// NewGallery builds a gallery model. Images with an empty source are skipped;
// an empty emptyMessage selects DefaultGalleryEmpty.
func NewGallery(id string, images []domain.Image, emptyMessage string) Gallery {
	if emptyMessage == "" {
		emptyMessage = DefaultGalleryEmpty
	}
	valid := validImages(images)
	g := Gallery{
		Images:       make([]GalleryImage, 0, len(valid)),
		Empty:        len(valid) == 0,
		EmptyMessage: emptyMessage,
	}
	for i, img := range valid {
		g.Images = append(g.Images, GalleryImage{
			Image:  img,
			Index:  i,
			Anchor: fmt.Sprintf("%s-%d", id, i),
			URL:    fmt.Sprintf("?%s=%d", LightboxParam, i),
		})
	}
	return g
}

// LinkTo points the tiles at the lightbox of another page whose gallery holds
// these images starting at position offset.
func (g Gallery) LinkTo(path string, offset int) Gallery {
	images := make([]GalleryImage, len(g.Images))
	for i, img := range g.Images {
		img.URL = fmt.Sprintf("%s?%s=%d", path, LightboxParam, offset+img.Index)
		images[i] = img
	}
	g.Images = images
	return g
}

// Count is the number of displayable images.
func (g Gallery) Count() int { return len(g.Images) }

func validImages(images []domain.Image) []domain.Image {
	out := make([]domain.Image, 0, len(images))
	for _, img := range images {
		if img.Src != "" {
			out = append(out, img)
		}
	}
	return out
}
