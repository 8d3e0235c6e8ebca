package images

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// rasterTypes are the formats that may be embedded in the output.
var rasterTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/webp",
	"image/tiff",
}

// DetectRaster returns the MIME type of data when it is a supported
// raster image whose header decodes cleanly.
func DetectRaster(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	mtype := rasterType(mimetype.Detect(data))
	if mtype == "" {
		return "", false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", false
	}
	return mtype, true
}

// rasterType walks up the detected type's hierarchy so that subtypes
// such as animated PNG resolve to their base raster format.
func rasterType(m *mimetype.MIME) string {
	for ; m != nil; m = m.Parent() {
		for _, want := range rasterTypes {
			if m.Is(want) {
				return want
			}
		}
	}
	return ""
}

// DataURI encodes data as a base64 data URI of the given MIME type.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
