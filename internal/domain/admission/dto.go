package admission

// LoginDTO is the admin login form.
type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateNotesDTO replaces the notes of an open review modal.
type UpdateNotesDTO struct {
	Notes string `json:"notes"`
}

// ReviewDecisionDTO confirms a review modal.
type ReviewDecisionDTO struct {
	Decision ApplicationStatus `json:"decision" binding:"required,oneof=VERIFIED REJECTED"`
}

// PaymentDecisionDTO confirms a payment modal. Approve is a pointer so that
// an explicit false (reject) is distinguishable from a missing field.
type PaymentDecisionDTO struct {
	Approve *bool `json:"approve" binding:"required"`
}

// SetStatusRequest is the backend body of the application verify call.
type SetStatusRequest struct {
	Status ApplicationStatus `json:"application_status"`
	Notes  string            `json:"notes"`
}

// SetPaymentVerificationRequest is the backend body of the payment verify call.
type SetPaymentVerificationRequest struct {
	Approved bool `json:"payment_verification_status"`
}

// AdminProfile is the admin identity returned by the backend on login.
type AdminProfile struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}
