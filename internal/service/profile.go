package service

import (
	"errors"

	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/dto"
	"eventsphere/internal/gate"
	"eventsphere/internal/model"
	"eventsphere/internal/repo"
)

func (s *service) GetProfile(ctx *ginext.Context) {
	p, ok := gate.PrincipalFrom(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}

	u, err := s.repo.GetUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			dto.BadRequestError(ctx, "Profile not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to fetch profile")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, u)
}

func (s *service) UpdateProfile(ctx *ginext.Context) {
	p, ok := gate.PrincipalFrom(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid JSON format")
		return
	}

	u, err := s.repo.UpsertProfile(ctx, &model.User{
		ID:         p.UserID,
		Email:      p.Email,
		FullName:   req.FullName,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to update profile")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, u)
}
