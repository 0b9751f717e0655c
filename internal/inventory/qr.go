package inventory

import (
	"net/url"
	"strings"
)

// QRChartURL is the external chart service that renders QR images.
const QRChartURL = "https://chart.googleapis.com/chart"

// QRPayload is the content encoded into an item's QR code: the bare id, or a
// deep link to the public app with the id as query parameter.
func QRPayload(id, baseURL string) string {
	if baseURL == "" {
		return id
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "id=" + id
}

// QRImageURL builds the chart-service URL that renders payload as a QR image.
func QRImageURL(payload string) string {
	return QRChartURL + "?cht=qr&chs=220x220&chld=L|0&chl=" + url.QueryEscape(payload)
}
