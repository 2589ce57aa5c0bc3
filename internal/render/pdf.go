// Package render turns composed story blocks into a printable PDF.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	"bedtime-server/internal/story"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
)

// Renderer writes a paged document for a story.
type Renderer interface {
	Render(ctx context.Context, title string, blocks []story.Block, w io.Writer) error
}

// Page geometry in millimetres (A4 portrait).
const (
	pageWidth      = 210.0
	pageHeight     = 297.0
	margin         = 20.0
	contentWidth   = pageWidth - 2*margin
	lineHeight     = 6.5
	paragraphGap   = 4.0
	imageGap       = 6.0
	imageMaxWidth  = contentWidth * 0.85
	imageMaxHeight = 110.0
	titleFontSize  = 22
	bodyFontSize   = 12
	footerFontSize = 9
)

// PDFRenderer lays blocks out top to bottom and starts a new page whenever
// the next line or picture does not fit in the remaining space.
type PDFRenderer struct {
	images ImageLoader
	logger *zap.Logger
}

var _ Renderer = (*PDFRenderer)(nil)

// NewPDFRenderer creates a renderer that resolves illustrations with images.
func NewPDFRenderer(images ImageLoader, logger *zap.Logger) *PDFRenderer {
	return &PDFRenderer{images: images, logger: logger.Named("PDFRenderer")}
}

func (r *PDFRenderer) Render(ctx context.Context, title string, blocks []story.Block, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("bedtime-server", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(pageHeight - margin/2 - 4)
		pdf.SetFont("Helvetica", "I", footerFontSize)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 4, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.SetTextColor(40, 40, 90)
	pdf.MultiCell(contentWidth, 10, tr(title), "", "C", false)
	pdf.Ln(paragraphGap * 2)

	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.SetTextColor(30, 30, 30)

	for i, b := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch b.Kind {
		case story.BlockText:
			r.writeParagraph(pdf, tr(b.Text))
		case story.BlockImage:
			r.placeImage(ctx, pdf, fmt.Sprintf("block%d", i), b)
		}
		if pdf.Err() {
			return fmt.Errorf("render block %d: %w", i, pdf.Error())
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// ensureSpace starts a new page when h millimetres do not fit on this one.
func ensureSpace(pdf *gofpdf.Fpdf, h float64) {
	if pdf.GetY()+h > pageHeight-margin {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.SetTextColor(30, 30, 30)
	}
}

func (r *PDFRenderer) writeParagraph(pdf *gofpdf.Fpdf, text string) {
	for _, line := range pdf.SplitLines([]byte(text), contentWidth) {
		ensureSpace(pdf, lineHeight)
		pdf.CellFormat(contentWidth, lineHeight, string(line), "", 2, "L", false, 0, "")
	}
	pdf.Ln(paragraphGap)
}

func (r *PDFRenderer) placeImage(ctx context.Context, pdf *gofpdf.Fpdf, name string, b story.Block) {
	data, imageType := r.resolve(ctx, b.URL)
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil || pdf.Err() {
		// gofpdf отвергает часть картинок, которые Go декодирует
		r.logger.Warn("PDF rejected illustration, using placeholder",
			zap.String("ref", shortRef(b.URL)), zap.Error(pdf.Error()))
		pdf.ClearError()
		placeholder, err := Placeholder()
		if err != nil {
			r.logger.Error("Failed to draw placeholder", zap.Error(err))
			return
		}
		name += "_placeholder"
		opts.ImageType = "PNG"
		info = pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(placeholder))
		if info == nil || pdf.Err() {
			return
		}
	}

	w, h := fitImage(info.Width(), info.Height())
	ensureSpace(pdf, h+imageGap)
	x := margin + (contentWidth-w)/2
	y := pdf.GetY()
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	pdf.SetY(y + h + imageGap)
}

// resolve loads an illustration, falling back to the placeholder art.
// PNG and GIF sources are re-encoded as 8-bit non-interlaced PNG, the only
// PNG flavour gofpdf embeds.
func (r *PDFRenderer) resolve(ctx context.Context, ref string) ([]byte, string) {
	img, err := r.images.Load(ctx, ref)
	if err == nil {
		switch t := imageTypeFor(img.ContentType, img.Data); t {
		case "":
			err = fmt.Errorf("unsupported image type %q", img.ContentType)
		case "JPG":
			if _, _, err = image.DecodeConfig(bytes.NewReader(img.Data)); err == nil {
				return img.Data, t
			}
		default:
			var data []byte
			if data, err = toPNG8(img.Data); err == nil {
				return data, "PNG"
			}
		}
	}
	r.logger.Warn("Using placeholder illustration", zap.String("ref", shortRef(ref)), zap.Error(err))
	data, perr := Placeholder()
	if perr != nil {
		r.logger.Error("Failed to draw placeholder", zap.Error(perr))
	}
	return data, "PNG"
}

func toPNG8(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(src.Bounds())
	xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("re-encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func imageTypeFor(contentType string, data []byte) string {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

// fitImage scales w×h (any unit) into the allowed box, keeping the ratio.
func fitImage(w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return imageMaxWidth, imageMaxWidth
	}
	scale := min(imageMaxWidth/w, imageMaxHeight/h)
	return w * scale, h * scale
}

func shortRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}
