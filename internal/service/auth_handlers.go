package service

import (
	"errors"
	"fmt"

	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/auth"
	"eventsphere/internal/dto"
	"eventsphere/internal/gate"
	"eventsphere/internal/repo"
	"eventsphere/pkg/validator"
)

func (s *service) Signup(ctx *ginext.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Email and password are required")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	u, err := s.auth.Signup(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			dto.BadRequestError(ctx, "Email already registered")
			return
		}
		s.log.Error().Err(err).Msg("failed to sign up user")
		dto.InternalServerError(ctx)
		return
	}

	if err := s.auth.IssueSession(ctx, ctx.Writer, u); err != nil {
		s.log.Error().Err(err).Msg("failed to issue session")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessCreatedResponse(ctx, u)
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Email and password are required")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	u, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			dto.BadRequestError(ctx, "Invalid login credentials")
			return
		}
		s.log.Error().Err(err).Msg("failed to log in user")
		dto.InternalServerError(ctx)
		return
	}

	if err := s.auth.IssueSession(ctx, ctx.Writer, u); err != nil {
		s.log.Error().Err(err).Msg("failed to issue session")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, u)
}

func (s *service) Logout(ctx *ginext.Context) {
	s.auth.Logout(ctx, ctx.Writer, ctx.Request)
	dto.SuccessMessageResponse(ctx, "Logged out successfully")
}

func (s *service) Me(ctx *ginext.Context) {
	p, ok := gate.PrincipalFrom(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}

	u, err := s.repo.GetUserByID(ctx, p.UserID)
	if err != nil {
		// the session can outlive the profile row; fall back to the claims
		dto.SuccessResponse(ctx, map[string]string{"id": p.UserID, "email": p.Email})
		return
	}
	dto.SuccessResponse(ctx, u)
}
