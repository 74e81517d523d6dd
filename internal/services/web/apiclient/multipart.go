package apiclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// File is one uploaded file part.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Multipart is a multipart/form-data payload.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// encode returns the body and its boundary-bearing content type.
func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	names := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteField(name, m.Fields[name]); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", name, err)
		}
	}

	for _, file := range m.Files {
		field := strings.TrimSpace(file.Field)
		if field == "" {
			field = "file"
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
		contentType := strings.TrimSpace(file.ContentType)
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create part %q: %w", field, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("write part %q: %w", field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
