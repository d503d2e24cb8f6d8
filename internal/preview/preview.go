// Package preview rasterizes render descriptors into small PNG images for
// eyeballing a composition without a browser. The output is an approximation:
// rotation, shadows, filters other than brightness and gradients beyond
// their first stop are not drawn, image assets missing from the assets directory are shown as
// placeholders and text uses a fixed bitmap face.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"regexp"
	"strconv"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/reelframe/internal/renderer"
	"github.com/ivlev/reelframe/internal/source"
	"github.com/ivlev/reelframe/internal/system"
)

var ErrInvalidScale = errors.New("preview scale must be in (0, 1]")

var placeholder = color.NRGBA{R: 0x2a, G: 0x2a, B: 0x33, A: 0xff}

var brightnessPattern = regexp.MustCompile(`brightness\(([0-9.]+)\)`)

type Options struct {
	Scale float64
	// Debug stamps a QR code with composition, frame and digest into the
	// bottom right corner.
	Debug bool
	// Assets, when set, supplies pictures for image elements.
	Assets *source.Assets
}

// Rasterizer draws frames. It is safe for concurrent use.
type Rasterizer struct {
	opts Options
	pool *system.CanvasPool
}

func New(opts Options) (*Rasterizer, error) {
	if !(opts.Scale > 0 && opts.Scale <= 1) {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidScale, opts.Scale)
	}
	return &Rasterizer{opts: opts, pool: system.NewCanvasPool()}, nil
}

// Rasterize draws fr at full size and returns it scaled down by the
// configured factor.
func (r *Rasterizer) Rasterize(fr *renderer.Frame) (*image.RGBA, error) {
	if fr.Width <= 0 || fr.Height <= 0 {
		return nil, fmt.Errorf("frame %d: empty canvas %dx%d", fr.Index, fr.Width, fr.Height)
	}

	canvas := r.pool.Get(image.Pt(fr.Width, fr.Height))
	defer r.pool.Put(canvas)

	bg, err := parsePaint(fr.Background)
	if err != nil {
		return nil, fmt.Errorf("frame %d background: %w", fr.Index, err)
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for i := range fr.Elements {
		if err := r.drawElement(canvas, &fr.Elements[i], identity, 1); err != nil {
			return nil, fmt.Errorf("frame %d: %w", fr.Index, err)
		}
	}

	w := max(1, int(math.Round(float64(fr.Width)*r.opts.Scale)))
	h := max(1, int(math.Round(float64(fr.Height)*r.opts.Scale)))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if out.Bounds() == canvas.Bounds() {
		draw.Draw(out, out.Bounds(), canvas, image.Point{}, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	}

	if r.opts.Debug {
		if err := stamp(out, fr); err != nil {
			return nil, fmt.Errorf("frame %d debug stamp: %w", fr.Index, err)
		}
	}
	return out, nil
}

// EncodePNG rasterizes fr and writes it to w as PNG.
func (r *Rasterizer) EncodePNG(w io.Writer, fr *renderer.Frame) error {
	img, err := r.Rasterize(fr)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// affine maps a point p to s*p + t. Element transforms only scale and
// translate here, so composing them stays in this form.
type affine struct {
	s, tx, ty float64
}

var identity = affine{s: 1}

func local(el *renderer.Element) affine {
	cx, cy := el.Box.Center()
	s := el.Transform.Scale
	return affine{
		s:  s,
		tx: cx - s*cx + el.Transform.TranslateX,
		ty: cy - s*cy + el.Transform.TranslateY,
	}
}

// then applies a first and parent second.
func (a affine) then(parent affine) affine {
	return affine{
		s:  parent.s * a.s,
		tx: parent.s*a.tx + parent.tx,
		ty: parent.s*a.ty + parent.ty,
	}
}

func (a affine) rect(b renderer.Box) image.Rectangle {
	x0, y0 := a.s*b.X+a.tx, a.s*b.Y+a.ty
	x1, y1 := a.s*(b.X+b.W)+a.tx, a.s*(b.Y+b.H)+a.ty
	return image.Rect(
		int(math.Floor(min(x0, x1))), int(math.Floor(min(y0, y1))),
		int(math.Ceil(max(x0, x1))), int(math.Ceil(max(y0, y1))),
	)
}

func (r *Rasterizer) drawElement(dst *image.RGBA, el *renderer.Element, parent affine, parentOpacity float64) error {
	opacity := parentOpacity * el.Opacity
	if opacity <= 0 {
		return nil
	}
	m := local(el).then(parent)
	rect := m.rect(el.Box).Intersect(dst.Bounds())

	if !rect.Empty() {
		switch el.Kind {
		case renderer.KindBox:
			if err := fill(dst, rect, el.Fill, opacity, nil); err != nil {
				return fmt.Errorf("%s: %w", el.ID, err)
			}
		case renderer.KindGlow, renderer.KindParticle:
			paint := el.Fill
			if paint == "" {
				paint = el.Color
			}
			full := m.rect(el.Box)
			if err := fill(dst, rect, paint, opacity, ellipse{full}); err != nil {
				return fmt.Errorf("%s: %w", el.ID, err)
			}
		case renderer.KindImage:
			r.drawImage(dst, m.rect(el.Box), rect, el, opacity)
		case renderer.KindText:
			if err := fill(dst, rect, el.Fill, opacity, nil); err != nil {
				return fmt.Errorf("%s: %w", el.ID, err)
			}
			c := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			if el.Color != "" {
				var err error
				if c, err = parsePaint(el.Color); err != nil {
					return fmt.Errorf("%s: %w", el.ID, err)
				}
			}
			drawText(dst, rect, el.Text, withOpacity(c, opacity))
		}
	}

	for i := range el.Children {
		if err := r.drawElement(dst, &el.Children[i], m, opacity); err != nil {
			return err
		}
	}
	return nil
}

// drawImage scales the asset to cover full and draws the part inside clip.
// Missing assets fall back to a placeholder.
func (r *Rasterizer) drawImage(dst *image.RGBA, full, clip image.Rectangle, el *renderer.Element, opacity float64) {
	var img image.Image
	if r.opts.Assets != nil && el.Asset != "" {
		img, _ = r.opts.Assets.Image(el.Asset)
	}
	if img == nil {
		draw.Draw(dst, clip, image.NewUniform(withOpacity(placeholder, opacity)), image.Point{}, draw.Over)
		return
	}

	layer := image.NewRGBA(full)
	draw.ApproxBiLinear.Scale(layer, full, img, cover(img.Bounds(), full), draw.Src, nil)
	if b, ok := brightness(el.Filter); ok && b < 1 {
		dim := color.NRGBA{A: uint8((1-clamp01(b))*255 + 0.5)}
		draw.Draw(layer, full, image.NewUniform(dim), image.Point{}, draw.Over)
	}
	alpha := image.NewUniform(color.Alpha{A: uint8(clamp01(opacity)*255 + 0.5)})
	draw.DrawMask(dst, clip, layer, clip.Min, alpha, image.Point{}, draw.Over)
}

// cover returns the centered part of src with the aspect ratio of dst.
func cover(src, dst image.Rectangle) image.Rectangle {
	if src.Empty() || dst.Empty() {
		return src
	}
	sw, sh := float64(src.Dx()), float64(src.Dy())
	want := float64(dst.Dx()) / float64(dst.Dy())
	if sw/sh > want {
		w := int(math.Round(sh * want))
		x := src.Min.X + (src.Dx()-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := int(math.Round(sw / want))
	y := src.Min.Y + (src.Dy()-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}

func brightness(filter string) (float64, bool) {
	m := brightnessPattern.FindStringSubmatch(filter)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

func fill(dst *image.RGBA, rect image.Rectangle, paint string, opacity float64, mask image.Image) error {
	if paint == "" {
		return nil
	}
	c, err := parsePaint(paint)
	if err != nil {
		return err
	}
	src := image.NewUniform(withOpacity(c, opacity))
	if mask == nil {
		draw.Draw(dst, rect, src, image.Point{}, draw.Over)
		return nil
	}
	draw.DrawMask(dst, rect, src, image.Point{}, mask, rect.Min, draw.Over)
	return nil
}

// ellipse is an alpha mask inscribed in r.
type ellipse struct {
	r image.Rectangle
}

func (e ellipse) ColorModel() color.Model { return color.AlphaModel }

func (e ellipse) Bounds() image.Rectangle { return e.r }

func (e ellipse) At(x, y int) color.Color {
	rx, ry := float64(e.r.Dx())/2, float64(e.r.Dy())/2
	if rx <= 0 || ry <= 0 {
		return color.Transparent
	}
	dx := (float64(x) + 0.5 - float64(e.r.Min.X) - rx) / rx
	dy := (float64(y) + 0.5 - float64(e.r.Min.Y) - ry) / ry
	if dx*dx+dy*dy <= 1 {
		return color.Opaque
	}
	return color.Transparent
}

// drawText renders s with the bitmap face and stretches it to fit rect,
// keeping the aspect ratio and centering it.
func drawText(dst *image.RGBA, rect image.Rectangle, s string, c color.NRGBA) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Height
	if w == 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	k := min(float64(rect.Dx())/float64(w), float64(rect.Dy())/float64(h))
	tw, th := int(float64(w)*k), int(float64(h)*k)
	if tw == 0 || th == 0 {
		return
	}
	off := image.Pt((rect.Dx()-tw)/2, (rect.Dy()-th)/2)
	target := image.Rect(0, 0, tw, th).Add(rect.Min).Add(off)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}

// stamp draws a QR code identifying the frame into the corner of img.
func stamp(img *image.RGBA, fr *renderer.Frame) error {
	digest, err := fr.Digest()
	if err != nil {
		return err
	}
	q, err := qrcode.New(StampContent(fr.Composition, fr.Index, digest), qrcode.Medium)
	if err != nil {
		return err
	}

	b := img.Bounds()
	size := min(b.Dx(), b.Dy()) / 3
	if size < 21 {
		return nil
	}
	code := q.Image(size)
	at := image.Rect(b.Max.X-size, b.Max.Y-size, b.Max.X, b.Max.Y)
	draw.Draw(img, at, code, code.Bounds().Min, draw.Src)
	return nil
}

// StampContent is the text encoded in the debug QR code.
func StampContent(composition string, frame int, digest string) string {
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return fmt.Sprintf("%s@%d#%s", composition, frame, digest)
}
