package assets

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

// Root is the key prefix under which all cloud images live.
const Root = "clouds"

// imagePattern matches the extensions the copy step accepts.
const imagePattern = "*.{jpg,jpeg,png,webp}"

// GalleryPrefix returns the key prefix of a genus gallery: clouds/{genus}/gallery/.
func GalleryPrefix(genusCode string) string {
	return path.Join(Root, strings.ToLower(genusCode), "gallery") + "/"
}

// SubItemPrefix returns the key prefix of a sub-item gallery:
// clouds/{genus}/{category}/{romanizedName}/.
func SubItemPrefix(genusCode string, c domain.Category, romanizedName string) string {
	return path.Join(Root, strings.ToLower(genusCode), string(c), romanizedName) + "/"
}

// KeyFromURL converts a public URL path such as "/clouds/ci/gallery/01.jpg" to
// a store key. It reports false for paths outside the cloud image root.
func KeyFromURL(src string) (string, bool) {
	key := strings.TrimPrefix(src, "/")
	if !strings.HasPrefix(key, Root+"/") {
		return "", false
	}
	clean, err := CleanKey(key)
	if err != nil {
		return "", false
	}
	return clean, true
}

// URLForKey is the inverse of KeyFromURL.
func URLForKey(key string) string {
	return "/" + strings.TrimPrefix(key, "/")
}

// IsImageKey reports whether the key's file name has an accepted image extension.
func IsImageKey(key string) bool {
	ok, _ := doublestar.Match(imagePattern, strings.ToLower(path.Base(key)))
	return ok
}

// DiscoverGallery lists the images under prefix in key order. Non-image objects
// are skipped. A prefix with no objects yields an empty gallery.
func DiscoverGallery(ctx context.Context, store Store, prefix string) ([]domain.Image, error) {
	infos, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("discover gallery %s: %w", prefix, err)
	}
	images := make([]domain.Image, 0, len(infos))
	for _, info := range infos {
		if !IsImageKey(info.Key) {
			continue
		}
		images = append(images, domain.Image{Src: URLForKey(info.Key)})
	}
	return images, nil
}
