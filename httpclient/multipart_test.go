package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMultipartBody_Encode(t *testing.T) {
	body := &MultipartBody{
		Fields: map[string]string{"note": "hello"},
		Files: []FileField{{
			FieldName: "file",
			FileName:  "NutShell.zip",
			Reader:    bytes.NewReader([]byte("zip-bytes")),
		}},
	}

	r, ct, err := body.encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Errorf("unexpected content type %q", ct)
	}

	data, _ := io.ReadAll(r)
	s := string(data)
	if !strings.Contains(s, `filename="NutShell.zip"`) {
		t.Errorf("missing filename in %q", s)
	}
	if !strings.Contains(s, "zip-bytes") {
		t.Errorf("missing file content in %q", s)
	}
	if !strings.Contains(s, `name="note"`) || !strings.Contains(s, "hello") {
		t.Errorf("missing form field in %q", s)
	}
}

func TestMultipartBody_CustomContentType(t *testing.T) {
	body := &MultipartBody{
		Files: []FileField{{
			FieldName:   "file",
			FileName:    "pkg.zip",
			ContentType: "application/zip",
			Reader:      strings.NewReader("x"),
		}},
	}

	r, _, err := body.encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := io.ReadAll(r)
	if !strings.Contains(string(data), "Content-Type: application/zip") {
		t.Errorf("missing part content type in %q", data)
	}
}

func TestFileUpload_RoundTrip(t *testing.T) {
	content := []byte("shell package payload")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if header.Filename != "NutShell.zip" {
			t.Errorf("filename = %q", header.Filename)
		}
		got, _ := io.ReadAll(f)
		if !bytes.Equal(got, content) {
			t.Errorf("uploaded content mismatch: %q", got)
		}
		w.WriteHeader(201)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/Shells",
		Body:   FileUpload("file", "NutShell.zip", bytes.NewReader(content)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestEscapeQuotes(t *testing.T) {
	if got := escapeQuotes(`a"b\c`); got != `a\"b\\c` {
		t.Errorf("escapeQuotes = %q", got)
	}
}
