package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
)

// MultipartBody is a multipart/form-data request body. Pass it as the Body
// field of a Request; the content type with boundary is set automatically.
type MultipartBody struct {
	// Fields are plain form fields.
	Fields map[string]string
	// Files are file upload parts.
	Files []FileField
}

// FileField is one file part of a multipart request.
type FileField struct {
	// FieldName is the form field name, e.g. "file".
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the part's MIME type. Empty means the multipart
	// default (application/octet-stream).
	ContentType string
	// Reader supplies the file content.
	Reader io.Reader
}

// FileUpload builds a single-file multipart body under the given field name.
func FileUpload(fieldName, fileName string, r io.Reader) *MultipartBody {
	return &MultipartBody{
		Files: []FileField{{FieldName: fieldName, FileName: fileName, Reader: r}},
	}
}

// encode renders the multipart body and returns the reader and content type.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		part, err := createPart(w, f)
		if err != nil {
			return nil, "", err
		}
		if f.Reader != nil {
			if _, err := io.Copy(part, f.Reader); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func createPart(w *multipart.Writer, f FileField) (io.Writer, error) {
	if f.ContentType == "" {
		return w.CreateFormFile(f.FieldName, f.FileName)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
	header.Set("Content-Type", f.ContentType)
	return w.CreatePart(header)
}

// escapeQuotes escapes quotes and backslashes in header values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
