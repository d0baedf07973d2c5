package client

import (
	"context"
	"io"

	"github.com/shopkit-dev/shopctl/csrf"
	"github.com/shopkit-dev/shopctl/domain"
	"github.com/shopkit-dev/shopctl/transport"
)

// UploadsService stores files (product images) on the platform.
type UploadsService struct {
	t     *transport.Client
	guard *csrf.Guard
}

// Upload stores the contents of r under filename and returns the stored
// file's descriptor.
func (s *UploadsService) Upload(ctx context.Context, filename string, r io.Reader) (*domain.UploadResult, error) {
	return csrf.ProtectResult(ctx, s.guard, func(ctx context.Context) (*domain.UploadResult, error) {
		var out domain.UploadResult
		if err := s.t.Upload(ctx, "uploads.create", "/uploads", "file", filename, r, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}
