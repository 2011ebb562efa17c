package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"eventsphere/internal/model"
)

const (
	MsgAllFieldsRequired = "Please provide all required fields"
	MsgEventNotFound     = "Event not found"
	MsgEventFull         = "Event is at full capacity"
	MsgDeadlinePassed    = "Registration deadline has passed"
	MsgNoFieldsToUpdate  = "No fields to update"
	MsgUnauthorized      = "Unauthorized"
	MsgInternalError     = "Internal Server Error"
)

type CreateEventRequest struct {
	Title               string     `json:"title" validate:"required"`
	Description         string     `json:"description" validate:"required"`
	Date                time.Time  `json:"date" validate:"required"`
	Location            string     `json:"location" validate:"required"`
	Capacity            int        `json:"capacity" validate:"required,gt=0"`
	Organizer           string     `json:"organizer" validate:"required"`
	Category            string     `json:"category"`
	ImageURL            string     `json:"imageUrl"`
	RegistrationEndDate *time.Time `json:"registrationEndDate"`
}

// UpdateEventRequest carries a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	Date                *time.Time `json:"date"`
	Location            *string    `json:"location"`
	Capacity            *int       `json:"capacity" validate:"omitempty,gt=0"`
	Organizer           *string    `json:"organizer"`
	Category            *string    `json:"category"`
	ImageURL            *string    `json:"imageUrl"`
	RegistrationEndDate *time.Time `json:"registrationEndDate"`
	Status              *string    `json:"status" validate:"omitempty,oneof=UPCOMING COMPLETED CANCELLED"`
}

// RegisterRequest covers both variants of the admission flow: an
// authenticated caller sends only the event id, an anonymous caller
// supplies the student fields directly.
type RegisterRequest struct {
	EventID      string `json:"eventId" validate:"required"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail" validate:"omitempty,email"`
	StudentID    string `json:"studentId"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

type EventWithCount struct {
	model.Event
	Registered int `json:"registered"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

// RegistrationNoticeMessage is published to RabbitMQ after the admission
// flow commits; the consumer worker turns it into an e-mail.
type RegistrationNoticeMessage struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
	StudentEmail   string `json:"student_email"`
	Kind           string `json:"kind"` // "registered" or "cancelled"
}

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func FailResponse(c *ginext.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

func BadRequestError(c *ginext.Context, message string) {
	FailResponse(c, 400, message)
}

func UnauthorizedError(c *ginext.Context) {
	FailResponse(c, 401, MsgUnauthorized)
}

func NotFoundError(c *ginext.Context, message string) {
	FailResponse(c, 404, message)
}

func InternalServerError(c *ginext.Context) {
	FailResponse(c, 500, MsgInternalError)
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessMessageResponse(c *ginext.Context, message string) {
	c.JSON(200, Response{
		Success: true,
		Message: message,
	})
}
