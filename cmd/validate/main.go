// Command validate checks the gallery asset tree against the taxonomy catalog:
// every image the catalog references must exist in the asset store, and every
// object in the store must sit where the layout expects it.
//
// The asset store is selected with the same ASSET_* environment variables as
// the service.
//
// Usage:
//
//	ASSET_DRIVER=fs ASSET_FS_ROOT=public go run ./cmd/validate
//	ASSET_DRIVER=s3 ASSET_S3_BUCKET=haneulgyeol-assets go run ./cmd/validate -catalog catalog.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/haneulgyeol/cloud-atlas/internal/assets"
	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
	"github.com/haneulgyeol/cloud-atlas/internal/config"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	mu     sync.Mutex
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogPath := flag.String("catalog", "", "catalog YAML to check instead of the embedded one")
	concurrency := flag.Int("concurrency", 8, "parallel asset lookups")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	if *catalogPath != "" {
		data, err := os.ReadFile(*catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: read catalog: %v\n", err)
			os.Exit(1)
		}
		if cat, err = catalog.Load(data); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := assets.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open asset store: %v\n", err)
		os.Exit(1)
	}

	color := isatty.IsTerminal(os.Stdout.Fd())
	if code := run(ctx, cat, store, *concurrency, os.Stdout, color); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, cat *catalog.Catalog, store assets.Store, concurrency int, out io.Writer, color bool) int {
	fmt.Fprintf(out, "=== Cloud Atlas Asset Validation (%s) ===\n\n", store.Driver())

	refs := collectRefs(cat.Genera())
	objects, err := store.List(ctx, assets.Root+"/")
	if err != nil {
		fmt.Fprintf(out, "FATAL: list assets: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRefs(refs),
		validateRefsExist(ctx, store, refs, concurrency),
		validateLayout(cat.Genera(), objects),
	}

	pass, fail := "PASS", "FAIL (%d errors)"
	if color {
		pass, fail = "\033[32mPASS\033[0m", "\033[31mFAIL (%d errors)\033[0m"
	}
	allPassed := true
	for _, p := range phases {
		status := pass
		if !p.passed() {
			status = fmt.Sprintf(fail, len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nImages: %d referenced by the catalog, %d objects in the store\n", len(refs), len(objects))
	if empty := emptyGalleries(cat.Genera(), objects); len(empty) > 0 {
		fmt.Fprintf(out, "Genera without gallery images: %s\n", strings.Join(empty, ", "))
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// imageRef is one image source named by the catalog and where it was found.
// prefix is the key prefix the image must live under; empty skips the check.
type imageRef struct {
	src    string
	owner  string
	prefix string
}

func collectRefs(genera []domain.Genus) []imageRef {
	var refs []imageRef
	for _, g := range genera {
		gallery := assets.GalleryPrefix(g.Code)
		if g.Image != "" {
			refs = append(refs, imageRef{src: g.Image, owner: g.Code + " cover", prefix: gallery})
		}
		for _, img := range g.Gallery {
			refs = append(refs, imageRef{src: img.Src, owner: g.Code + " gallery", prefix: gallery})
		}
		for _, c := range domain.Categories() {
			for _, it := range g.Items(c) {
				prefix := assets.SubItemPrefix(g.Code, c, it.RomanizedName)
				for _, img := range it.Gallery {
					refs = append(refs, imageRef{
						src:    img.Src,
						owner:  fmt.Sprintf("%s %s/%s", g.Code, c, it.RomanizedName),
						prefix: prefix,
					})
				}
			}
		}
	}
	return refs
}

func validateRefs(refs []imageRef) *phase {
	p := &phase{name: "Catalog image paths"}
	for _, r := range refs {
		key, ok := assets.KeyFromURL(r.src)
		switch {
		case r.src == "":
			p.errorf("%s: empty image source", r.owner)
		case !ok:
			p.errorf("%s: %q is not under /%s/", r.owner, r.src, assets.Root)
		case !assets.IsImageKey(key):
			p.errorf("%s: %q has no image extension", r.owner, r.src)
		case r.prefix != "" && !strings.HasPrefix(key, r.prefix):
			p.errorf("%s: %q belongs under /%s", r.owner, r.src, r.prefix)
		}
	}
	return p
}

func validateRefsExist(ctx context.Context, store assets.Store, refs []imageRef, concurrency int) *phase {
	p := &phase{name: "Referenced images exist"}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, r := range refs {
		key, ok := assets.KeyFromURL(r.src)
		if !ok {
			continue
		}
		g.Go(func() error {
			_, err := store.Head(gctx, key)
			switch {
			case errors.Is(err, assets.ErrNotFound):
				p.errorf("%s: %s is missing", r.owner, key)
			case err != nil:
				return fmt.Errorf("head %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.errorf("store lookup aborted: %v", err)
	}
	slices.Sort(p.errors)
	return p
}

const (
	galleryPattern = assets.Root + "/*/gallery/*"
	subItemPattern = assets.Root + "/*/{species,varieties,supplementary}/*/*"
)

func validateLayout(genera []domain.Genus, objects []assets.Info) *phase {
	p := &phase{name: "Asset tree layout"}

	known := make(map[string]domain.Genus, len(genera))
	for _, g := range genera {
		known[strings.ToLower(g.Code)] = g
	}

	for _, obj := range objects {
		parts := strings.Split(obj.Key, "/")
		gallery, _ := doublestar.Match(galleryPattern, obj.Key)
		sub, _ := doublestar.Match(subItemPattern, obj.Key)
		if !gallery && !sub {
			p.errorf("%s: outside the gallery layout", obj.Key)
			continue
		}
		if !assets.IsImageKey(obj.Key) {
			p.errorf("%s: not an image (%s)", obj.Key, path.Ext(obj.Key))
		}
		g, ok := known[parts[1]]
		if !ok {
			p.errorf("%s: unknown genus %q", obj.Key, parts[1])
			continue
		}
		if sub {
			c := domain.Category(parts[2])
			if _, ok := g.Item(c, parts[3]); !ok {
				p.errorf("%s: %s has no %s named %q", obj.Key, g.Symbol, c, parts[3])
			}
		}
	}
	return p
}

func emptyGalleries(genera []domain.Genus, objects []assets.Info) []string {
	var out []string
	for _, g := range genera {
		if len(g.Gallery) > 0 {
			continue
		}
		prefix := assets.GalleryPrefix(g.Code)
		found := slices.ContainsFunc(objects, func(o assets.Info) bool {
			return strings.HasPrefix(o.Key, prefix) && assets.IsImageKey(o.Key)
		})
		if !found {
			out = append(out, g.Symbol)
		}
	}
	return out
}
