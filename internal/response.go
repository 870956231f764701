package internal

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/arikaim/controllers/pkg/envelope"
)

// noCacheHeaders are applied to redirects so clients never replay a
// stale redirect target.
func noCacheHeaders(h http.Header) {
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", time.Unix(0, 0).UTC().Format(http.TimeFormat))
}

// WriteJSON writes the envelope as the response body with the envelope's
// status code. Raw mode writes the payload alone without the outer
// envelope.
func WriteJSON(w http.ResponseWriter, env *envelope.Envelope, raw bool) error {
	body, err := env.Serialize(raw)
	if err != nil {
		return fmt.Errorf("serialize response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code())
	_, err = w.Write(body)
	return err
}

// Redirect sends a temporary redirect with no-cache headers.
func Redirect(w http.ResponseWriter, r *http.Request, url string) error {
	noCacheHeaders(w.Header())
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	return nil
}

// WriteXML writes body as a text/xml response. Strings and byte slices
// are written verbatim; any other value is marshaled with encoding/xml.
func WriteXML(w http.ResponseWriter, status int, body any) error {
	var data []byte
	switch v := body.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		encoded, err := xml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode xml: %w", err)
		}
		data = encoded
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}

// Download streams content as an attachment with the given file name.
func Download(w http.ResponseWriter, name string, content io.Reader) error {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, content)
	return err
}

// imageContentTypes maps file extensions to inline image content types.
var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ImageView streams content for inline display. The content type is
// derived from the file extension; unknown extensions fall back to
// octet-stream.
func ImageView(w http.ResponseWriter, name string, content io.Reader) error {
	contentType, ok := imageContentTypes[path.Ext(name)]
	if !ok {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, content)
	return err
}
