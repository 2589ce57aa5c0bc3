package render

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	placeholderWidth  = 800
	placeholderHeight = 600
)

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
	placeholderErr  error
)

// Placeholder returns the PNG drawn in place of a missing illustration.
func Placeholder() ([]byte, error) {
	placeholderOnce.Do(func() {
		placeholderPNG, placeholderErr = drawPlaceholder("Illustration unavailable")
	})
	return placeholderPNG, placeholderErr
}

func drawPlaceholder(caption string) ([]byte, error) {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	dc := gg.NewContext(placeholderWidth, placeholderHeight)
	dc.SetHexColor("#EEF2FF")
	dc.Clear()

	// Луна и пара звёзд
	dc.SetHexColor("#FDE68A")
	dc.DrawCircle(placeholderWidth*0.72, placeholderHeight*0.32, 70)
	dc.Fill()
	dc.SetHexColor("#EEF2FF")
	dc.DrawCircle(placeholderWidth*0.72+35, placeholderHeight*0.32-20, 62)
	dc.Fill()
	dc.SetHexColor("#C7D2FE")
	for _, p := range [][2]float64{{160, 120}, {260, 200}, {120, 260}, {560, 90}} {
		dc.DrawCircle(p[0], p[1], 6)
		dc.Fill()
	}

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: 36}))
	dc.SetHexColor("#4338CA")
	dc.DrawStringAnchored(caption, placeholderWidth/2, placeholderHeight*0.75, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
