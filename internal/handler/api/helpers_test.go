package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/fhuszti/upload-relay-go/internal/session"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

type filePart struct {
	filename    string
	contentType string
	content     []byte
}

// multipartBody builds an upload form. A nil file leaves the file part out.
func multipartBody(t *testing.T, fields map[string]string, file *filePart) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.filename+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return buf, mw.FormDataContentType()
}

type fakeRelayer struct {
	out *upload.RelayOutput
	err error

	called bool
	sess   session.Authenticated
	in     upload.RelayInput
	body   []byte
}

func (f *fakeRelayer) Relay(ctx context.Context, sess session.Authenticated, in upload.RelayInput) (*upload.RelayOutput, error) {
	f.called = true
	f.sess = sess
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return &upload.RelayOutput{State: upload.StateOf(f.err)}, f.err
	}
	return f.out, nil
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
