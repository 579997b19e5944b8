// Copyright 2024 the framediff authors.
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package plot

import (
	"image/png"
	"io"

	"gonum.org/v1/plot/vg/vgimg"
)

func encodePNG(img *vgimg.Canvas, w io.Writer) error {
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	return encoder.Encode(w, img.Image())
}
