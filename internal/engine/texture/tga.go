package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

type tgaHeader struct {
	idLength    int
	colorMap    byte
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, errors.New("tga: header too short")
	}
	h := tgaHeader{
		idLength:    int(data[0]),
		colorMap:    data[1],
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		bpp:         int(data[16]),
		topToBottom: data[17]&0x20 != 0,
	}
	switch {
	case h.colorMap != 0:
		return h, errors.New("tga: color-mapped images are not supported")
	case h.imageType != tgaTrueColor && h.imageType != tgaTrueColorRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bpp != 24 && h.bpp != 32:
		return h, fmt.Errorf("tga: unsupported bit depth %d", h.bpp)
	case h.width == 0 || h.height == 0:
		return h, errors.New("tga: empty image")
	}
	return h, nil
}

// decodeTGA reads uncompressed and RLE true-color TGA files. Pixels are
// stored BGR(A), bottom-up unless the descriptor says otherwise.
func decodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	src := data[offset:]
	stride := h.bpp / 8
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	total := h.width * h.height

	// put writes one source pixel to the n-th position in file order.
	put := func(n int, px []byte) {
		x, y := n%h.width, n/h.width
		if !h.topToBottom {
			y = h.height - 1 - y
		}
		i := img.PixOffset(x, y)
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = px[2], px[1], px[0], 255
		if stride == 4 {
			img.Pix[i+3] = px[3]
		}
	}

	if h.imageType == tgaTrueColor {
		if len(src) < total*stride {
			return nil, errTGATruncated
		}
		for n := range total {
			put(n, src[n*stride:])
		}
		return img, nil
	}

	n := 0
	for n < total {
		if len(src) == 0 {
			return nil, errTGATruncated
		}
		packet := src[0]
		src = src[1:]
		count := min(int(packet&0x7f)+1, total-n)

		if packet&0x80 != 0 {
			if len(src) < stride {
				return nil, errTGATruncated
			}
			for range count {
				put(n, src)
				n++
			}
			src = src[stride:]
			continue
		}

		if len(src) < count*stride {
			return nil, errTGATruncated
		}
		for range count {
			put(n, src)
			src = src[stride:]
			n++
		}
	}
	return img, nil
}
