package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// IconSizes are the square sizes generated for the web manifest.
var IconSizes = []int{48, 72, 96, 144, 192, 256, 384, 512}

// GenerateIcons decodes src and renders it into each of sizes as a square
// PNG. Non-square sources are scaled to fit and centred on a transparent
// canvas.
func GenerateIcons(src io.Reader, sizes []int) (map[int][]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("decode icon: empty image")
	}

	icons := make(map[int][]byte, len(sizes))
	for _, n := range sizes {
		dst := image.NewRGBA(image.Rect(0, 0, n, n))
		draw.CatmullRom.Scale(dst, fitRect(bounds, n), img, bounds, draw.Over, nil)
		var buf bytes.Buffer
		if err := png.Encode(&buf, dst); err != nil {
			return nil, fmt.Errorf("encode icon %dx%d: %w", n, n, err)
		}
		icons[n] = buf.Bytes()
	}
	return icons, nil
}

// fitRect returns the largest rectangle with src's aspect ratio that fits in
// an n×n square, centred.
func fitRect(src image.Rectangle, n int) image.Rectangle {
	w, h := src.Dx(), src.Dy()
	if w >= h {
		sh := h * n / w
		if sh < 1 {
			sh = 1
		}
		top := (n - sh) / 2
		return image.Rect(0, top, n, top+sh)
	}
	sw := w * n / h
	if sw < 1 {
		sw = 1
	}
	left := (n - sw) / 2
	return image.Rect(left, 0, left+sw, n)
}

// loadIcons generates icons from the manifest icon file. A missing file is
// not an error: the manifest then only lists IconList entries.
func (a *App) loadIcons() error {
	path := a.Config.Plugins.Manifest.Icon
	if path == "" || a.Config.Plugins.Manifest.Disabled {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			a.Logger.Warn("manifest icon not found, skipping icon generation", "path", path)
			return nil
		}
		return fmt.Errorf("folio: open icon: %w", err)
	}
	defer f.Close()
	icons, err := GenerateIcons(f, IconSizes)
	if err != nil {
		return fmt.Errorf("folio: %s: %w", path, err)
	}
	a.icons = icons
	a.Logger.Info("generated manifest icons", "source", path, "count", len(icons))
	return nil
}

func iconPath(n int) string {
	return fmt.Sprintf("/icons/icon-%dx%d.png", n, n)
}
