package dto

// ContactRequest is the payload posted by the portfolio contact form.
type ContactRequest struct {
	Name        string `json:"Name" validate:"required,max=120"`
	Email       string `json:"Email" validate:"required,max=160"`
	Phone       string `json:"Phone" validate:"required,max=40"`
	Description string `json:"Description" validate:"required,max=4000"`
	Token       string `json:"token"`
	IPAddress   string `json:"-"`
}

// ContactResponse is returned once a submission has been stored.
type ContactResponse struct {
	Success bool `json:"success"`
	FormID  uint `json:"FormID"`
}

// ContactNotificationEvent is the message published for each stored submission.
type ContactNotificationEvent struct {
	FormID      uint   `json:"form_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
	SubmittedAt string `json:"submitted_at"`
}
