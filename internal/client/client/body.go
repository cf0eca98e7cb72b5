package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
)

// FormBody is sent as application/x-www-form-urlencoded.
type FormBody url.Values

type multipartField struct {
	name  string
	value string
}

type multipartFile struct {
	field      string
	attachment models.Attachment
}

// MultipartBody is sent as multipart/form-data. Fields and files keep the
// order in which they were added.
type MultipartBody struct {
	fields []multipartField
	files  []multipartFile
}

func NewMultipartBody() *MultipartBody {
	return &MultipartBody{}
}

// Field adds a text part. Empty values are still sent.
func (m *MultipartBody) Field(name, value string) *MultipartBody {
	m.fields = append(m.fields, multipartField{name: name, value: value})
	return m
}

// File adds a file part under field.
func (m *MultipartBody) File(field string, a models.Attachment) *MultipartBody {
	m.files = append(m.files, multipartFile{field: field, attachment: a})
	return m
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	for _, f := range m.files {
		contentType := f.attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.field), quoteEscaper.Replace(f.attachment.Name)))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", f.field, err)
		}
		if _, err := part.Write(f.attachment.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", f.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
