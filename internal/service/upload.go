package service

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/dto"
	"eventsphere/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MB

func (s *service) Upload(ctx *ginext.Context) {
	if s.s3 == nil {
		s.log.Error().Msg("upload requested but object storage is not configured")
		dto.InternalServerError(ctx)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		dto.BadRequestError(ctx, "No file provided")
		return
	}
	if header.Size > maxUploadSize {
		dto.BadRequestError(ctx, "File is too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to open uploaded file")
		dto.InternalServerError(ctx)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".tmp"
	}
	key := uuid.NewString() + ext

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.s3.Put(ctx, key, contentType, file, header.Size); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to upload image")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.UploadResponse{URL: "/images/" + key})
}

func (s *service) GetImage(ctx *ginext.Context) {
	if s.s3 == nil {
		dto.NotFoundError(ctx, "Image not found")
		return
	}

	key := ctx.Param("key")
	body, contentType, size, err := s.s3.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			dto.NotFoundError(ctx, "Image not found")
			return
		}
		s.log.Error().Err(err).Str("key", key).Msg("failed to fetch image")
		dto.InternalServerError(ctx)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "image/png"
	}
	ctx.Header("Cache-Control", "public, max-age=31536000, immutable")
	ctx.DataFromReader(http.StatusOK, size, contentType, body, nil)
}
