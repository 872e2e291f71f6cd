package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/api_context"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
	"github.com/fhuszti/upload-relay-go/internal/validation"
	"github.com/gabriel-vasile/mimetype"
)

const (
	maxFormMemory      = 32 << 20
	genericContentType = "application/octet-stream"
)

type uploadForm struct {
	Name string `form:"name" validate:"max=120,nocontrol"`
}

// UploadHandler relays one multipart file and answers with an HTML fragment holding the link.
func UploadHandler(svc upload.FileRelayer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.ContentLength > maxBytes {
			WriteText(ctx, w, http.StatusRequestEntityTooLarge, "File is too large.", nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteText(ctx, w, http.StatusRequestEntityTooLarge, "File is too large.", err)
				return
			}
			WriteText(ctx, w, http.StatusBadRequest, "No file uploaded.", err)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				logger.Warnf(ctx, "⚠️  could not remove multipart temp files: %v", err)
			}
		}()

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteText(ctx, w, http.StatusBadRequest, "No file uploaded.", err)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				logger.Warnf(ctx, "⚠️  could not close uploaded file: %v", err)
			}
		}()

		form := uploadForm{Name: r.FormValue("name")}
		if err := validation.ValidateStruct(form); err != nil {
			WriteText(ctx, w, http.StatusBadRequest, validation.ErrorsToText(err), err)
			return
		}

		contentType, err := resolveContentType(file, header)
		if err != nil {
			WriteText(ctx, w, http.StatusBadRequest, "No file uploaded.", err)
			return
		}

		sess, _ := api_context.SessionFromContext(ctx)
		out, err := svc.Relay(ctx, sess, upload.RelayInput{
			Body:        file,
			Size:        header.Size,
			Filename:    header.Filename,
			ContentType: contentType,
			Label:       form.Name,
		})
		if err != nil {
			writeRelayError(w, r, err)
			return
		}

		RespondHTML(ctx, w, http.StatusOK, uploadedView, uploadedData{
			URL:       out.Link.URL,
			Key:       out.Object.Key,
			ExpiresAt: out.Link.ExpiresAt.UTC().Format(time.RFC1123),
		})
	}
}

// resolveContentType trusts the client's declared type unless it is missing or generic,
// in which case the leading bytes are sniffed. The file is rewound either way.
func resolveContentType(file multipart.File, header *multipart.FileHeader) (string, error) {
	declared := header.Header.Get("Content-Type")
	if declared != "" && declared != genericContentType {
		return declared, nil
	}
	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mt.String(), nil
}

func writeRelayError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch upload.StateOf(err) {
	case upload.StateRejectedUnauthenticated:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case upload.StateRejectedNoFile:
		WriteText(ctx, w, http.StatusBadRequest, "No file uploaded.", err)
	case upload.StateFailedConfiguration:
		WriteText(ctx, w, http.StatusInternalServerError, "Server configuration error.", err)
	case upload.StateFailedSigning:
		WriteText(ctx, w, http.StatusInternalServerError, "Error generating signed URL.", err)
	default:
		WriteText(ctx, w, http.StatusInternalServerError, "Error uploading file.", err)
	}
}
