package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/auth"
	"eventsphere/internal/dto"
	"eventsphere/internal/gate"
	"eventsphere/internal/model"
	"eventsphere/internal/rabbit"
	"eventsphere/internal/repo"
	"eventsphere/internal/storage"
	"eventsphere/pkg/validator"
)

type Service interface {
	GetAllEvents(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)

	Register(ctx *ginext.Context)
	CancelRegistration(ctx *ginext.Context)
	ListRegistrations(ctx *ginext.Context)

	GetProfile(ctx *ginext.Context)
	UpdateProfile(ctx *ginext.Context)

	Signup(ctx *ginext.Context)
	Login(ctx *ginext.Context)
	Logout(ctx *ginext.Context)
	Me(ctx *ginext.Context)

	Upload(ctx *ginext.Context)
	GetImage(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	rbt  *rabbit.Client
	auth *auth.Service
	s3   *storage.S3Client
}

func NewService(repo repo.Repository, log *zerolog.Logger, rbt *rabbit.Client, authSvc *auth.Service, s3 *storage.S3Client) Service {
	return &service{
		repo: repo,
		log:  log,
		rbt:  rbt,
		auth: authSvc,
		s3:   s3,
	}
}

func (s *service) GetAllEvents(ctx *ginext.Context) {
	events, err := s.repo.GetAllEvents(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.EventWithCount, 0, len(events))
	for _, e := range events {
		count, err := s.repo.CountRegistrations(ctx, e.ID)
		if err != nil {
			s.log.Error().Err(err).Str("event_id", e.ID).Msg("failed to count registrations")
			dto.InternalServerError(ctx)
			return
		}
		resp = append(resp, dto.EventWithCount{Event: e, Registered: count})
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetEvent(ctx *ginext.Context) {
	event, err := s.repo.GetEventByID(ctx, ctx.Param("id"))
	if err != nil {
		dto.NotFoundError(ctx, dto.MsgEventNotFound)
		return
	}

	count, err := s.repo.CountRegistrations(ctx, event.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.EventWithCount{Event: *event, Registered: count})
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create event request")
		dto.BadRequestError(ctx, dto.MsgAllFieldsRequired)
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		s.log.Error().Msgf("validation failed: %v", verr)
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	event := &model.Event{
		Title:               req.Title,
		Description:         req.Description,
		Date:                req.Date,
		RegistrationEndDate: req.RegistrationEndDate,
		Location:            req.Location,
		Capacity:            req.Capacity,
		Category:            req.Category,
		Organizer:           req.Organizer,
		Status:              model.EventStatusUpcoming,
	}
	if req.ImageURL != "" {
		event.ImageURL = &req.ImageURL
	}

	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("event_id", id).Msg("event created successfully")
	dto.SuccessCreatedResponse(ctx, event)
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Date != nil {
		fields["date"] = *req.Date
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Capacity != nil {
		fields["capacity"] = *req.Capacity
	}
	if req.Organizer != nil {
		fields["organizer"] = *req.Organizer
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.RegistrationEndDate != nil {
		fields["registration_end_date"] = *req.RegistrationEndDate
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	event, err := s.repo.UpdateEvent(ctx, ctx.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNoFields):
			dto.BadRequestError(ctx, dto.MsgNoFieldsToUpdate)
		case errors.Is(err, repo.ErrEventNotFound):
			dto.NotFoundError(ctx, dto.MsgEventNotFound)
		default:
			s.log.Error().Err(err).Msg("failed to update event")
			dto.InternalServerError(ctx)
		}
		return
	}

	dto.SuccessResponse(ctx, event)
}

func (s *service) DeleteEvent(ctx *ginext.Context) {
	if err := s.repo.DeleteEvent(ctx, ctx.Param("id")); err != nil {
		s.log.Error().Err(err).Msg("failed to delete event")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

// Register runs the admission flow: resolve the registrant (session
// principal or explicit student fields), then let the repository commit the
// registration under the event row lock.
func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	reg := &model.Registration{EventID: req.EventID}

	if p, ok := gate.PrincipalFrom(ctx); ok {
		reg.UserID = &p.UserID
		reg.StudentEmail = p.Email
		reg.StudentName = p.Email
		reg.StudentID = req.StudentID
		if u, err := s.repo.GetUserByID(ctx, p.UserID); err == nil && u.FullName != "" {
			reg.StudentName = u.FullName
		}
	} else {
		if req.StudentName == "" && req.StudentEmail == "" && req.StudentID == "" {
			dto.UnauthorizedError(ctx)
			return
		}
		if req.StudentName == "" || req.StudentEmail == "" || req.StudentID == "" {
			dto.BadRequestError(ctx, dto.MsgAllFieldsRequired)
			return
		}
		reg.StudentName = req.StudentName
		reg.StudentEmail = req.StudentEmail
		reg.StudentID = req.StudentID
	}

	eventTitle, err := s.repo.RegisterAttendeeTx(ctx, reg)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEventNotFound):
			dto.NotFoundError(ctx, dto.MsgEventNotFound)
		case errors.Is(err, repo.ErrRegistrationClosed):
			dto.BadRequestError(ctx, dto.MsgDeadlinePassed)
		case errors.Is(err, repo.ErrEventFull):
			dto.BadRequestError(ctx, dto.MsgEventFull)
		default:
			s.log.Error().Err(err).Msg("failed to register attendee")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Str("registration_id", reg.ID).
		Str("event_id", reg.EventID).
		Msg("registration created successfully")

	s.publishNotice(dto.RegistrationNoticeMessage{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		EventTitle:     eventTitle,
		StudentEmail:   reg.StudentEmail,
		Kind:           "registered",
	})

	dto.SuccessCreatedResponse(ctx, reg)
}

func (s *service) CancelRegistration(ctx *ginext.Context) {
	p, ok := gate.PrincipalFrom(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}

	if err := s.repo.DeleteRegistration(ctx, ctx.Param("id"), p.UserID); err != nil {
		s.log.Error().Err(err).Msg("failed to delete registration")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, nil)
}

func (s *service) ListRegistrations(ctx *ginext.Context) {
	regs, err := s.repo.ListRegistrationsWithEvents(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalServerError(ctx)
		return
	}
	if regs == nil {
		regs = []model.RegistrationWithEvent{}
	}
	dto.SuccessResponse(ctx, regs)
}

// publishNotice hands the message to RabbitMQ for the notification worker.
// Publish failures are logged and dropped; the registration already
// committed and there are no retries.
func (s *service) publishNotice(msg dto.RegistrationNoticeMessage) {
	if s.rbt == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal registration notice")
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish registration notice")
	}
}
