package smoke

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedTexture = errors.New("unsupported texture format")

// LoadTexture decodes a PNG, JPEG or WebP file into tightly packed NRGBA,
// scaling it down when a side exceeds maxSize.
func LoadTexture(path string, maxSize int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedTexture, path)
		}
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return ToNRGBA(img, maxSize), nil
}

// ToNRGBA converts img to an NRGBA image whose Pix rows are contiguous.
func ToNRGBA(img image.Image, maxSize int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		k := float64(maxSize) / float64(max(w, h))
		w = max(1, int(float64(w)*k))
		h = max(1, int(float64(h)*k))
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == w*4 && b.Min == (image.Point{}) {
		return nrgba
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// PuffTexture generates a soft white smoke puff: radial alpha falloff broken
// up by two octaves of value noise.
func PuffTexture(size int, seed uint64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	half := float64(size) * 0.5
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			d := math.Hypot(dx, dy)
			falloff := 1 - d
			if falloff <= 0 {
				continue
			}
			falloff *= falloff

			n := 0.65*valueNoise(seed, float64(x)/16, float64(y)/16) +
				0.35*valueNoise(seed^0x5EED, float64(x)/6, float64(y)/6)
			a := falloff * (0.55 + 0.45*n)

			i := y*img.Stride + x*4
			img.Pix[i+0] = 255
			img.Pix[i+1] = 255
			img.Pix[i+2] = 255
			img.Pix[i+3] = uint8(math.Round(255 * math.Min(1, a)))
		}
	}
	return img
}

// valueNoise returns smoothly interpolated lattice noise in [0,1].
func valueNoise(seed uint64, x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	lattice := func(cx, cy int) float64 {
		return float64(hash2D(seed, cx, cy)>>11) * (1.0 / (1 << 53))
	}
	sx := fx * fx * (3 - 2*fx)
	sy := fy * fy * (3 - 2*fy)

	top := lattice(ix, iy) + (lattice(ix+1, iy)-lattice(ix, iy))*sx
	bot := lattice(ix, iy+1) + (lattice(ix+1, iy+1)-lattice(ix, iy+1))*sx
	return top + (bot-top)*sy
}

// ResolveTexture returns the configured texture, or a procedural puff when no
// path is set.
func ResolveTexture(cfg *Config) (*image.NRGBA, error) {
	if cfg.TexturePath == "" {
		return PuffTexture(PuffTextureSize, cfg.Seed), nil
	}
	return LoadTexture(cfg.TexturePath, MaxTextureSize)
}
