package marketplace

import (
	"context"
	"net/url"
)

// Tutor requests

func (c *Client) TutorRequests(ctx context.Context, token string) ([]TutorRequest, error) {
	var out []TutorRequest
	err := c.get(ctx, "/tutor-requests", token, &out)
	return out, err
}

func (c *Client) CreateTutorRequest(ctx context.Context, token string, req NewTutorRequest) (TutorRequest, error) {
	var out TutorRequest
	err := c.post(ctx, "/tutor-requests", token, req, &out)
	return out, err
}

func (c *Client) UpdateTutorRequest(ctx context.Context, token, id string, fields map[string]interface{}) (TutorRequest, error) {
	var out TutorRequest
	err := c.patch(ctx, idPath("/tutor-requests/%s", id), token, fields, &out)
	return out, err
}

func (c *Client) ApproveTutorRequest(ctx context.Context, token, id string) error {
	return c.post(ctx, idPath("/tutor-requests/%s/approve", id), token, nil, nil)
}

func (c *Client) RejectTutorRequest(ctx context.Context, token, id string) error {
	return c.post(ctx, idPath("/tutor-requests/%s/reject", id), token, nil, nil)
}

func (c *Client) TutorRequestStats(ctx context.Context, token string) (TutorRequestStats, error) {
	var out TutorRequestStats
	err := c.get(ctx, "/tutor-requests/stats", token, &out)
	return out, err
}

// User profiles

func (c *Client) UserProfiles(ctx context.Context, token, userType string) ([]ProfileRecord, error) {
	path := "/user-profiles"
	if userType != "" {
		path += "?type=" + url.QueryEscape(userType)
	}
	var out []ProfileRecord
	err := c.get(ctx, path, token, &out)
	return out, err
}

func (c *Client) UserProfileByID(ctx context.Context, token, id string) (ProfileRecord, error) {
	var out ProfileRecord
	err := c.get(ctx, idPath("/user-profiles/%s", id), token, &out)
	return out, err
}

func (c *Client) UpdateUserProfile(ctx context.Context, token, id string, fields map[string]interface{}) (ProfileRecord, error) {
	var out ProfileRecord
	err := c.patch(ctx, idPath("/user-profiles/%s", id), token, fields, &out)
	return out, err
}

func (c *Client) DeleteUserProfile(ctx context.Context, token, id string) error {
	return c.delete(ctx, idPath("/user-profiles/%s", id), token)
}

// Courses

func (c *Client) Courses(ctx context.Context, token string) ([]Course, error) {
	var out []Course
	err := c.get(ctx, "/courses", token, &out)
	return out, err
}

// Lessons

func (c *Client) Lessons(ctx context.Context, token string) ([]Lesson, error) {
	var out []Lesson
	err := c.get(ctx, "/lessons", token, &out)
	return out, err
}

func (c *Client) CreateLesson(ctx context.Context, token string, fields map[string]interface{}) (Lesson, error) {
	var out Lesson
	err := c.post(ctx, "/lessons", token, fields, &out)
	return out, err
}

func (c *Client) UpdateLesson(ctx context.Context, token, id string, fields map[string]interface{}) (Lesson, error) {
	var out Lesson
	err := c.patch(ctx, idPath("/lessons/%s", id), token, fields, &out)
	return out, err
}

// Payments

func (c *Client) Payments(ctx context.Context, token string) ([]Payment, error) {
	var out []Payment
	err := c.get(ctx, "/payments", token, &out)
	return out, err
}

func (c *Client) PaymentSummary(ctx context.Context, token string) (PaymentSummary, error) {
	var out PaymentSummary
	err := c.get(ctx, "/payments/summary", token, &out)
	return out, err
}

// VerifyPayment asks the backend to confirm a Paystack reference after the
// widget's success callback. The portal never talks to Paystack directly.
func (c *Client) VerifyPayment(ctx context.Context, token, reference string) (PaymentVerification, error) {
	body := struct {
		Reference string `json:"reference"`
	}{reference}
	var out PaymentVerification
	err := c.post(ctx, "/payments/verify", token, body, &out)
	return out, err
}

// Referrals

func (c *Client) Referrals(ctx context.Context, token string) ([]Referral, error) {
	var out []Referral
	err := c.get(ctx, "/referrals", token, &out)
	return out, err
}

func (c *Client) ReferralStats(ctx context.Context, token string) (ReferralStats, error) {
	var out ReferralStats
	err := c.get(ctx, "/referrals/stats", token, &out)
	return out, err
}

func (c *Client) GenerateReferralCode(ctx context.Context, token string) (Referral, error) {
	var out Referral
	err := c.post(ctx, "/referrals/generate-code", token, nil, &out)
	return out, err
}

// Chats

func (c *Client) Chats(ctx context.Context, token string) ([]Chat, error) {
	var out []Chat
	err := c.get(ctx, "/chats", token, &out)
	return out, err
}

func (c *Client) Messages(ctx context.Context, token, chatID string) ([]Message, error) {
	var out []Message
	err := c.get(ctx, idPath("/chats/%s/messages", chatID), token, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, token, chatID, body string) (Message, error) {
	payload := struct {
		Body string `json:"body"`
	}{body}
	var out Message
	err := c.post(ctx, idPath("/chats/%s/messages", chatID), token, payload, &out)
	return out, err
}

// Reviews

func (c *Client) Reviews(ctx context.Context, token string) ([]Review, error) {
	var out []Review
	err := c.get(ctx, "/reviews", token, &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, token string, review Review) (Review, error) {
	var out Review
	err := c.post(ctx, "/reviews", token, review, &out)
	return out, err
}

func (c *Client) TutorRating(ctx context.Context, token, tutorID string) (Rating, error) {
	var out Rating
	err := c.get(ctx, idPath("/tutors/%s/rating", tutorID), token, &out)
	return out, err
}

// Analytics

func (c *Client) DashboardAnalytics(ctx context.Context, token string) (DashboardAnalytics, error) {
	var out DashboardAnalytics
	err := c.get(ctx, "/analytics/dashboard", token, &out)
	return out, err
}

func (c *Client) ComprehensiveAnalytics(ctx context.Context, token string) (ComprehensiveAnalytics, error) {
	var out ComprehensiveAnalytics
	err := c.get(ctx, "/analytics/comprehensive", token, &out)
	return out, err
}
