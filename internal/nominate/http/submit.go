package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/nominate/internal/nominate/service"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/aussiebroadwan/nominate/pkg/nominatesdk"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

// multipartMemory is how much of a form is held in memory before spilling
// file parts to disk.
const multipartMemory = 8 << 20

type SubmitHandler struct {
	SubmissionService *service.SubmissionService
	MaxUploadBytes    int64
}

// ServeHTTP accepts a nomination.
//
//	@Summary		Submit a nomination
//	@Description	Multipart form with the nomination fields and an optional "cv" file part.
//	@Tags			Nominations
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			cv	formData	file	false	"Nominee CV"
//	@Success		200	{object}	nominatesdk.SubmitResponse
//	@Failure		400	{object}	nominatesdk.ErrorResponse	"Rejected submission"
//	@Failure		413	{object}	nominatesdk.ErrorResponse	"Upload too large"
//	@Failure		500	{object}	nominatesdk.ErrorResponse	"Storage or database failure"
//	@Router			/submit [post].
func (h *SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if h.MaxUploadBytes > 0 {
		if r.ContentLength > h.MaxUploadBytes {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	raw, err := readSubmission(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		l.Info("unreadable submission", "error", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	id, err := h.SubmissionService.Submit(r.Context(), raw)
	switch {
	case errors.Is(err, service.ErrRejected):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		httpx.WriteError(w, http.StatusInternalServerError, "Submission failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, nominatesdk.SubmitResponse{
		Message: "Form submitted successfully",
		ID:      id,
	})
}

// readSubmission accepts multipart bodies and, for forms without a file,
// url-encoded ones.
func readSubmission(r *http.Request) (service.RawSubmission, error) {
	var raw service.RawSubmission

	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return raw, err
		}
	case err != nil:
		return raw, err
	default:
		defer r.MultipartForm.RemoveAll()
	}

	raw.Fields = make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			raw.Fields[k] = v[0]
		}
	}

	if r.MultipartForm == nil {
		return raw, nil
	}
	f, hdr, err := r.FormFile("cv")
	if errors.Is(err, http.ErrMissingFile) {
		return raw, nil
	}
	if err != nil {
		return raw, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return raw, err
	}
	raw.File = &service.FilePayload{
		FieldName:   "cv",
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}
	return raw, nil
}
