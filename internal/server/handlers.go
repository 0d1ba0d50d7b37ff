package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-parser/internal/logging"
)

// uploadForm is the validated view of a multipart upload.
type uploadForm struct {
	Filename  string `validate:"required"`
	Allowed   bool   `validate:"eq=true"`
	Sanitized string `validate:"required"`
}

type indexData struct {
	Action  string
	Message string
}

// handleUploadForm renders the upload page.
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, "")
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, indexData{Action: r.URL.Path, Message: message}); err != nil {
		logging.FromContext(r.Context(), s.logger).Error("failed to render upload form", "error", err)
	}
}

// handleUpload stores an uploaded resume and redirects to its parse result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.uploadError(w, r, err)
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	name, err := s.checkUpload(header.Filename)
	if err != nil {
		s.uploadError(w, r, err)
		return
	}

	if err := s.store(file, filepath.Join(s.uploadDir, name)); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	logging.FromContext(r.Context(), s.logger).Info("stored upload", "name", name, "bytes", header.Size)
	http.Redirect(w, r, "/resume/"+url.PathEscape(name), http.StatusSeeOther)
}

// handleDisplayResume parses a previously uploaded resume and returns its record as JSON.
func (s *Server) handleDisplayResume(w http.ResponseWriter, r *http.Request) {
	requested := r.PathValue("name")
	name := SecureFilename(requested)
	if name == "" || name != requested {
		s.errorResponse(w, r, &ErrResumeNotFound{Name: requested})
		return
	}

	path := filepath.Join(s.uploadDir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		s.errorResponse(w, r, &ErrResumeNotFound{Name: requested})
		return
	}

	record, err := s.parser.ParseFile(r.Context(), path)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleParse parses an uploaded resume in one request without keeping the file.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	name, err := s.checkUpload(header.Filename)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	tmp, err := os.CreateTemp(s.uploadDir, "parse-*"+filepath.Ext(name))
	if err != nil {
		s.errorResponse(w, r, fmt.Errorf("failed to create temporary file: %w", err))
		return
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup

	if err := s.store(file, tmpPath); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	record, err := s.parser.ParseFile(r.Context(), tmpPath)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// formFile reads the "file" part of a size-limited multipart body.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, nil, err
		}
		return nil, nil, &ErrValidation{Field: "file", Message: "No file part"}
	}
	return file, header, nil
}

// checkUpload validates the client file name and returns the name to store it under.
func (s *Server) checkUpload(filename string) (string, error) {
	form := uploadForm{
		Filename:  filename,
		Allowed:   allowedExtension(filename, s.extensions),
		Sanitized: SecureFilename(filename),
	}

	if err := s.validate.Struct(form); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return "", err
		}
		switch validationErrs[0].StructField() {
		case "Filename":
			return "", &ErrValidation{Field: "file", Message: "No selected file"}
		case "Allowed":
			return "", &ErrValidation{Field: "file", Message: fmt.Sprintf("file type not allowed (want %s)", strings.Join(s.extensions, ", "))}
		default:
			return "", &ErrValidation{Field: "file", Message: "file name has no usable characters"}
		}
	}
	return form.Sanitized, nil
}

// store copies an upload to path.
func (s *Server) store(src io.Reader, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return nil
}

// uploadError re-renders the form with the message for browser submissions and
// answers with JSON otherwise.
func (s *Server) uploadError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) && strings.Contains(r.Header.Get("Accept"), "text/html") {
		s.renderForm(w, r, http.StatusBadRequest, validationErr.Message)
		return
	}
	s.errorResponse(w, r, err)
}
