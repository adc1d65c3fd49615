package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mark3labs/rentdesk/internal/form"
)

// encodeMultipart writes p as multipart/form-data and returns the body and
// its content type. Attachments are read fully so the request can be
// replayed by the transport if needed.
func encodeMultipart(p *form.Payload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, part := range p.Values {
		if err := w.WriteField(part.Name, part.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", part.Name, err)
		}
	}
	for _, att := range p.Files {
		if err := writeFile(w, att); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, att form.Attachment) error {
	src, err := att.File.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", att.Name, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := w.CreateFormFile(att.Name, attachmentName(att.File.Name, att.Name))
	if err != nil {
		return fmt.Errorf("creating part %s: %w", att.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying %s: %w", att.Name, err)
	}
	return nil
}

// attachmentName slugifies a user file name, keeping its extension, so the
// backend never stores spaces or accents in upload paths.
func attachmentName(name, fallback string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := slug.Make(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = slug.Make(fallback)
	}
	return base + ext
}
