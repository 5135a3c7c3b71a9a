package resume_storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/minhle/career-os/internal/application/service"
	"github.com/minhle/career-os/internal/config"
	"github.com/minhle/career-os/pkg/logger"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
	log logger.Logger
}

// NewCloudinaryAdapter stores submitted resume files as raw assets under the
// resumes/ folder. The file itself is opaque to the backend; only the URL is
// kept on the profile.
func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.ResumeStorage, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("Connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, log: log}, nil
}

// NewDisabledStorage stands in when Cloudinary is not configured. Uploads
// fail, which the extraction flow tolerates: skills still come back, only the
// archived copy is skipped.
func NewDisabledStorage() service.ResumeStorage {
	return disabledStorage{}
}

type disabledStorage struct{}

func (disabledStorage) UploadResume(ctx context.Context, filename string, data io.Reader) (string, error) {
	return "", fmt.Errorf("resume storage is not configured")
}

func (a *cloudinaryAdapter) UploadResume(ctx context.Context, filename string, data io.Reader) (string, error) {
	publicID := strings.TrimSuffix(filename, ".pdf")
	result, err := a.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       "resumes",
		ResourceType: "raw",
		Overwrite:    api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}
	return result.SecureURL, nil
}
