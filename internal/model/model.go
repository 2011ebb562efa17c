package model

import "time"

const (
	EventStatusUpcoming  = "UPCOMING"
	EventStatusCompleted = "COMPLETED"
	EventStatusCancelled = "CANCELLED"

	RegistrationStatusRegistered = "REGISTERED"
	RegistrationStatusAttended   = "ATTENDED"
)

type Event struct {
	ID                  string     `db:"id" json:"id"`
	Title               string     `db:"title" json:"title"`
	Description         string     `db:"description" json:"description"`
	Date                time.Time  `db:"date" json:"date"`
	RegistrationEndDate *time.Time `db:"registration_end_date" json:"registrationEndDate,omitempty"`
	Location            string     `db:"location" json:"location"`
	Capacity            int        `db:"capacity" json:"capacity"`
	Category            string     `db:"category" json:"category,omitempty"`
	Organizer           string     `db:"organizer" json:"organizer"`
	ImageURL            *string    `db:"image_url" json:"imageUrl,omitempty"`
	Status              string     `db:"status" json:"status"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
}

type Registration struct {
	ID           string    `db:"id" json:"id"`
	EventID      string    `db:"event_id" json:"eventId"`
	StudentName  string    `db:"student_name" json:"studentName"`
	StudentEmail string    `db:"student_email" json:"studentEmail"`
	StudentID    string    `db:"student_id" json:"studentId"`
	UserID       *string   `db:"user_id" json:"userId,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// RegistrationWithEvent is the admin listing row: a registration joined
// with the title and date of its event.
type RegistrationWithEvent struct {
	Registration
	EventTitle string    `db:"event_title" json:"eventTitle"`
	EventDate  time.Time `db:"event_date" json:"eventDate"`
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Department   string    `db:"department" json:"department"`
	Phone        string    `db:"phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
