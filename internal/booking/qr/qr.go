package qr

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Generator renders share codes pointing at public venue and artist pages.
type Generator struct {
	baseURL string
	size    int
}

func NewGenerator(baseURL string, size int) (*Generator, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid public base url %q", baseURL)
	}
	if size <= 0 {
		size = defaultSize
	}
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), size: size}, nil
}

// ShareURL is the public page for kind ("venues" or "artists") and id.
func (g *Generator) ShareURL(kind string, id int64) string {
	return fmt.Sprintf("%s/%s/%d", g.baseURL, kind, id)
}

// PNG encodes the share URL as a QR code image.
func (g *Generator) PNG(kind string, id int64) ([]byte, error) {
	return qrcode.Encode(g.ShareURL(kind, id), qrcode.Medium, g.size)
}
