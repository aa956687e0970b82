package marketplace

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Domain entities are opaque, server-assigned DTOs consumed read-only for
// display. There is no local write-back cache: after any mutation the caller
// re-fetches the whole list rather than patching entries in place.

type TutorRequest struct {
	ID          string      `json:"id"`
	StudentName string      `json:"student_name"`
	Email       string      `json:"email"`
	Subject     string      `json:"subject"`
	Level       string      `json:"level"`
	Location    null.String `json:"location"`
	Status      string      `json:"status"` // pending | approved | rejected
	Note        null.String `json:"note"`
	CreatedAt   time.Time   `json:"created_at"`
}

type TutorRequestStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type NewTutorRequest struct {
	Subject  string `json:"subject" form:"subject" validate:"required"`
	Level    string `json:"level" form:"level" validate:"required"`
	Location string `json:"location" form:"location"`
	Note     string `json:"note" form:"note"`
}

type ProfileRecord struct {
	ID       string      `json:"id"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	UserType string      `json:"user_type"`
	Phone    null.String `json:"phone"`
	Location null.String `json:"location"`
	Active   bool        `json:"active"`
}

type Course struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type Lesson struct {
	ID        string      `json:"id"`
	Subject   string      `json:"subject"`
	TutorName string      `json:"tutor_name"`
	Student   string      `json:"student_name"`
	Status    string      `json:"status"`
	Notes     null.String `json:"notes"`
	StartsAt  time.Time   `json:"starts_at"`
	Duration  int         `json:"duration_minutes"`
}

type Payment struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Email     string    `json:"email"`
	Amount    int64     `json:"amount"` // minor currency units
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	PaidAt    null.Time `json:"paid_at"`
}

type PaymentSummary struct {
	TotalCollected int64 `json:"total_collected"`
	TotalPending   int64 `json:"total_pending"`
	Count          int   `json:"count"`
}

type PaymentVerification struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Verified  bool   `json:"verified"`
}

type Referral struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	InvitedEmail null.String `json:"invited_email"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

type ReferralStats struct {
	Total     int   `json:"total"`
	Converted int   `json:"converted"`
	Earnings  int64 `json:"earnings"`
}

type Chat struct {
	ID          string      `json:"id"`
	Participant string      `json:"participant"`
	LastMessage null.String `json:"last_message"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Message struct {
	ID     string    `json:"id"`
	ChatID string    `json:"chat_id"`
	Sender string    `json:"sender"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

type Review struct {
	ID      string    `json:"id"`
	TutorID string    `json:"tutor_id"`
	Author  string    `json:"author"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

type Rating struct {
	TutorID string  `json:"tutor_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type DashboardAnalytics struct {
	Students  int   `json:"students"`
	Tutors    int   `json:"tutors"`
	Lessons   int   `json:"lessons"`
	Revenue   int64 `json:"revenue"`
	Referrals int   `json:"referrals"`
}

type ComprehensiveAnalytics struct {
	Dashboard      DashboardAnalytics `json:"dashboard"`
	RequestStats   TutorRequestStats  `json:"request_stats"`
	PaymentSummary PaymentSummary     `json:"payment_summary"`
	ReferralStats  ReferralStats      `json:"referral_stats"`
}
