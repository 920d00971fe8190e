package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/naming"
	"campaignbuilder/internal/patcher"
)

type generateResponse struct {
	JobID        string `json:"job_id"`
	HTMLURL      string `json:"html_url"`
	ImagesZipURL string `json:"imagens_zip_url"`
	HTMLLocator  string `json:"html_locator"`
	ZipLocator   string `json:"zip_locator"`
}

// GenerateHTML accepts a multipart submission and runs one job.
func (a *App) GenerateHTML(w http.ResponseWriter, r *http.Request) {
	if a.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "invalid_input", "upload too large")
			return
		}
		a.error(w, http.StatusBadRequest, "invalid_input", "invalid multipart payload")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	img, err := readUpload(r, "imagem", "image")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	sub := domain.Submission{
		Template:   r.FormValue("template"),
		Subject:    r.FormValue("subject"),
		Snippet:    r.FormValue("snippet"),
		EventLabel: firstValue(r, "event", "evento"),
		CTAURL:     firstValue(r, "cta", "cta_url"),
		Image:      img,
	}
	res, err := a.Jobs.Submit(r.Context(), sub)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, generateResponse{
		JobID:        res.JobID,
		HTMLURL:      res.HTML.URL,
		ImagesZipURL: res.Zip.URL,
		HTMLLocator:  res.HTML.Path(),
		ZipLocator:   res.Zip.Path(),
	})
}

func readUpload(r *http.Request, fields ...string) (domain.UploadedImage, error) {
	for _, field := range fields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return domain.UploadedImage{}, fmt.Errorf("read upload: %v: %w", err, domain.ErrInvalidInput)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return domain.UploadedImage{}, fmt.Errorf("read upload: %v: %w", err, domain.ErrInvalidInput)
		}
		return domain.UploadedImage{
			Filename:  header.Filename,
			Data:      data,
			Extension: naming.Extension(header.Filename),
		}, nil
	}
	return domain.UploadedImage{}, fmt.Errorf("image upload is required: %w", domain.ErrInvalidInput)
}

func firstValue(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if v := r.FormValue(key); v != "" {
			return v
		}
	}
	return ""
}

// Download streams a job artifact as an attachment.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	fileName := chi.URLParam(r, "filename")
	data, err := a.Jobs.Fetch(r.Context(), jobID, fileName)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	contentType := mime.TypeByExtension(path.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type patchRequest struct {
	HTML    string `json:"html"`
	Subject string `json:"subject"`
	Snippet string `json:"snippet"`
}

// PatchMeta rewrites the subject and snippet of a submitted document and
// returns the patched HTML. JSON and form bodies are accepted.
func (a *App) PatchMeta(w http.ResponseWriter, r *http.Request) {
	if a.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	}
	req, err := decodePatch(r, a.MaxUploadBytes)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	for name, v := range map[string]string{"html": req.HTML, "subject": req.Subject, "snippet": req.Snippet} {
		if strings.TrimSpace(v) == "" {
			a.fail(w, r, fmt.Errorf("%s is required: %w", name, domain.ErrInvalidInput))
			return
		}
	}
	out := patcher.Apply(patcher.Request{HTML: req.HTML, Subject: req.Subject, Snippet: req.Snippet})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, out)
}

func decodePatch(r *http.Request, maxMemory int64) (patchRequest, error) {
	var req patchRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := jsonDecode(r.Body, &req); err != nil {
			return req, fmt.Errorf("invalid payload: %v: %w", err, domain.ErrInvalidInput)
		}
		return req, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return req, fmt.Errorf("invalid payload: %v: %w", err, domain.ErrInvalidInput)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("invalid payload: %v: %w", err, domain.ErrInvalidInput)
		}
	}
	req.HTML = r.FormValue("html")
	req.Subject = r.FormValue("subject")
	req.Snippet = r.FormValue("snippet")
	return req, nil
}
