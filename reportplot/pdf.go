package reportplot

import (
	"image"
	"math"
	"os"

	"github.com/carbocation/pfx"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

const mmPerInch = 25.4

// Page is one PDF page: the normalized-facet panel on the left and the
// raw-facet panel on the right.
type Page struct {
	Left  image.Image
	Right image.Image
}

// WritePDF writes the pages, in order, to a single PDF with a fixed page
// size given in inches. The file handle and the renderer are released on
// every path, including errors mid-render.
func WritePDF(path string, pages []Page, widthIn, heightIn float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pfx.Err(cerr)
		}
	}()

	w := widthIn * mmPerInch
	h := heightIn * mmPerInch

	p := pdf.New(f, w, h, nil)
	defer func() {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = pfx.Err(cerr)
		}
	}()

	for i, page := range pages {
		if i > 0 {
			p.NewPage(w, h)
		}

		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)

		drawImageFit(ctx, page.Left, 0, 0, w/2, h)
		drawImageFit(ctx, page.Right, w/2, 0, w/2, h)

		c.Render(p)
	}

	return nil
}

// drawImageFit scales img to fit inside the given box (canvas units) and
// centers it there.
func drawImageFit(ctx *canvas.Context, img image.Image, x, y, boxW, boxH float64) {
	if img == nil {
		return
	}

	size := img.Bounds().Size()
	res := math.Max(float64(size.X)/boxW, float64(size.Y)/boxH)

	drawW := float64(size.X) / res
	drawH := float64(size.Y) / res

	ctx.DrawImage(x+(boxW-drawW)/2, y+(boxH-drawH)/2, img, canvas.Resolution(res))
}
