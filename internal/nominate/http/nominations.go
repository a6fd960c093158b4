package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/render"
	"github.com/aussiebroadwan/nominate/internal/nominate/service"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/aussiebroadwan/nominate/pkg/nominatesdk"
	"github.com/aussiebroadwan/nominate/pkg/slogx"
)

type NominationsHandler struct {
	NominationService *service.NominationService
}

// HandleList returns every nomination in submission order.
//
//	@Summary	List nominations
//	@Tags		Admin
//	@Produce	json
//	@Security	SessionCookie
//	@Success	200	{array}		nominatesdk.NominationSummary
//	@Failure	401	{object}	nominatesdk.ErrorResponse
//	@Failure	500	{object}	nominatesdk.ErrorResponse
//	@Router		/admin/nominations [get].
func (h *NominationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.NominationService.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list nominations", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to fetch nominations")
		return
	}

	out := make([]nominatesdk.NominationSummary, 0, len(list))
	for _, n := range list {
		s := nominatesdk.NominationSummary{
			ID:            n.ID,
			NominatorName: n.NominatorName,
			NomineeName:   n.NomineeName,
			Category:      n.Category,
		}
		if n.CVReference != "" {
			ref := n.CVReference
			s.CVReference = &ref
		}
		out = append(out, s)
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDownload streams the CV attached to a nomination.
//
//	@Summary	Download CV
//	@Tags		Admin
//	@Produce	octet-stream
//	@Security	SessionCookie
//	@Param		id	path		string	true	"Nomination ID"
//	@Success	200	{file}		binary
//	@Failure	401	{object}	nominatesdk.ErrorResponse
//	@Failure	404	{object}	nominatesdk.ErrorResponse	"Unknown nomination, no CV, or CV missing from storage"
//	@Failure	500	{object}	nominatesdk.ErrorResponse
//	@Router		/admin/download/{id} [get].
func (h *NominationsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := slogx.With(r.Context(), "nomination_id", r.PathValue("id"))
	l := slogx.FromContext(ctx)

	rc, ref, err := h.NominationService.OpenCV(ctx, r.PathValue("id"))
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrNoCV), errors.Is(err, blob.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "CV not found")
		return
	case err != nil:
		l.Error("open cv", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Download error")
		return
	}
	defer rc.Close()

	httpx.StartAttachment(w, ref.ContentType, ref.Filename)
	if _, err := io.Copy(w, rc); err != nil {
		l.Warn("cv download interrupted", "ref", ref.Reference, "error", err)
	}
}

// HandleFinalPDF renders the filled, read-only nomination document.
//
//	@Summary	Render nomination PDF
//	@Tags		Admin
//	@Produce	application/pdf
//	@Security	SessionCookie
//	@Param		id	path		string	true	"Nomination ID"
//	@Success	200	{file}		binary
//	@Failure	401	{object}	nominatesdk.ErrorResponse
//	@Failure	404	{object}	nominatesdk.ErrorResponse
//	@Failure	500	{object}	nominatesdk.ErrorResponse
//	@Router		/admin/finalpdf/{id} [get].
func (h *NominationsHandler) HandleFinalPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := slogx.With(r.Context(), "nomination_id", id)
	l := slogx.FromContext(ctx)

	doc, canonicalID, err := h.NominationService.RenderPDF(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Nomination not found")
		return
	case errors.Is(err, render.ErrTemplateUnavailable):
		httpx.WriteError(w, http.StatusInternalServerError, "PDF template unavailable")
		return
	case err != nil:
		l.Error("render pdf", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "PDF generation failed")
		return
	}

	httpx.StartAttachment(w, "application/pdf", "nomination-"+canonicalID+".pdf")
	_, _ = w.Write(doc)
}
