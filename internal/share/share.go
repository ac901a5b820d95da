package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// Link builds the public read-only URL of one predictor's bracket.
func Link(baseURL, tournamentSlug string, userID uuid.UUID) string {
	q := url.Values{}
	q.Set("u", userID.String())
	return fmt.Sprintf("%s/brackets/%s?%s", strings.TrimRight(baseURL, "/"), url.PathEscape(tournamentSlug), q.Encode())
}

// QRLink is the URL of the PNG that encodes Link.
func QRLink(baseURL, tournamentSlug string, userID uuid.UUID) string {
	q := url.Values{}
	q.Set("u", userID.String())
	return fmt.Sprintf("%s/brackets/%s/qr.png?%s", strings.TrimRight(baseURL, "/"), url.PathEscape(tournamentSlug), q.Encode())
}

// QRCode renders the share link as a PNG.
func QRCode(link string) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, qrSize)
}
