package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/idx"
)

// ErrNoCV means the nomination was submitted without a file.
var ErrNoCV = errors.New("nomination has no cv")

// DocumentRenderer produces the final nomination document.
type DocumentRenderer interface {
	Render(ctx context.Context, n domain.Nomination) ([]byte, error)
}

// NominationService backs the admin read endpoints.
type NominationService struct {
	Store    store.Store
	Blobs    blob.Store
	Renderer DocumentRenderer
}

func (s *NominationService) List(ctx context.Context) ([]domain.NominationSummary, error) {
	return s.Store.Nominations().ListNominationSummaries(ctx)
}

// Get returns a nomination. Malformed ids are reported as store.ErrNotFound.
func (s *NominationService) Get(ctx context.Context, id string) (domain.Nomination, error) {
	parsed, err := idx.Parse(id)
	if err != nil {
		return domain.Nomination{}, store.ErrNotFound
	}
	return s.Store.Nominations().GetNominationByID(ctx, parsed.String())
}

// OpenCV opens the stored CV of nomination id. The caller must close the
// reader. A record whose blob has gone missing yields blob.ErrNotFound.
func (s *NominationService) OpenCV(ctx context.Context, id string) (io.ReadCloser, domain.CVRef, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, domain.CVRef{}, err
	}
	if n.CV == nil {
		return nil, domain.CVRef{}, ErrNoCV
	}

	rc, err := s.Blobs.Get(ctx, n.CV.Reference)
	if err != nil {
		return nil, domain.CVRef{}, fmt.Errorf("open cv %s: %w", n.CV.Reference, err)
	}
	return rc, *n.CV, nil
}

// RenderPDF renders the final document for nomination id. The returned id is
// the stored, canonical form of id.
func (s *NominationService) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.Renderer.Render(ctx, n)
	if err != nil {
		return nil, "", err
	}
	return doc, n.ID, nil
}
