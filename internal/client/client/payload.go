package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

// Payload produces a request body and its content type.
type Payload interface {
	Encode() (contentType string, body io.Reader, err error)
}

type formPayload url.Values

// FormPayload encodes v as application/x-www-form-urlencoded.
func FormPayload(v url.Values) Payload {
	return formPayload(v)
}

func (f formPayload) Encode() (string, io.Reader, error) {
	return "application/x-www-form-urlencoded", strings.NewReader(url.Values(f).Encode()), nil
}

type part struct {
	name  string
	value string
	file  *models.FileHandle
}

// MultipartPayload is a multipart/form-data body. Parts are written in the
// order they were added.
type MultipartPayload struct {
	parts []part
}

func NewMultipart() *MultipartPayload {
	return &MultipartPayload{}
}

func (m *MultipartPayload) Field(name, value string) *MultipartPayload {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// File adds a file part. A nil handle is skipped, so an unselected file is
// simply absent from the body.
func (m *MultipartPayload) File(name string, h *models.FileHandle) *MultipartPayload {
	if h == nil {
		return m
	}
	m.parts = append(m.parts, part{name: name, file: h})
	return m
}

// Names lists the part names in wire order.
func (m *MultipartPayload) Names() []string {
	out := make([]string, len(m.parts))
	for i, p := range m.parts {
		out[i] = p.name
	}
	return out
}

func (m *MultipartPayload) Encode() (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range m.parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return "", nil, fmt.Errorf("write field %s: %w", p.name, err)
			}
			continue
		}
		if err := writeFile(w, p); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("close multipart: %w", err)
	}
	return w.FormDataContentType(), &buf, nil
}

func writeFile(w *multipart.Writer, p part) error {
	if p.file.Open == nil {
		return fmt.Errorf("file %s: no content", p.name)
	}

	src, err := p.file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", p.file.Name, err)
	}
	defer src.Close()

	dst, err := w.CreateFormFile(p.name, p.file.Name)
	if err != nil {
		return fmt.Errorf("create part %s: %w", p.name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s: %w", p.file.Name, err)
	}
	return nil
}
