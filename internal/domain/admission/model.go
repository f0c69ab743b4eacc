package admission

import (
	"bytes"
	"fmt"
	"time"
)

// ApplicationStatus is the lifecycle status of an admission submission.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "SUBMITTED"
	StatusVerified  ApplicationStatus = "VERIFIED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// IsDecision reports whether s is a status an admin may set on review.
func (s ApplicationStatus) IsDecision() bool {
	return s == StatusVerified || s == StatusRejected
}

// PaymentVerification is the tri-state outcome of a payment proof review.
// It is independent of ApplicationStatus.
type PaymentVerification int

const (
	PaymentUnverified PaymentVerification = iota
	PaymentApproved
	PaymentRejected
)

func (p PaymentVerification) String() string {
	switch p {
	case PaymentApproved:
		return "approved"
	case PaymentRejected:
		return "rejected"
	default:
		return "unset"
	}
}

// PaymentVerificationOf maps the backend's boolean decision to the tri-state.
func PaymentVerificationOf(approved bool) PaymentVerification {
	if approved {
		return PaymentApproved
	}
	return PaymentRejected
}

// MarshalJSON encodes the tri-state the way the backend does: null, true or false.
func (p PaymentVerification) MarshalJSON() ([]byte, error) {
	switch p {
	case PaymentApproved:
		return []byte("true"), nil
	case PaymentRejected:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (p *PaymentVerification) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null", "":
		*p = PaymentUnverified
	case "true":
		*p = PaymentApproved
	case "false":
		*p = PaymentRejected
	default:
		return fmt.Errorf("invalid payment verification status %s", data)
	}
	return nil
}

// Date is a calendar date that accepts both RFC 3339 timestamps and plain
// YYYY-MM-DD values from the backend.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// Applicant is the biographical record of a prospective student.
type Applicant struct {
	ID         uint   `json:"id"`
	FullName   string `json:"fullname"`
	Gender     string `json:"gender"`
	Religion   string `json:"religion"`
	BirthPlace string `json:"birth_place"`
	BirthDate  *Date  `json:"birth_date"`
	Email      string `json:"email"`
}

// Application is one admission submission as served by the backend.
type Application struct {
	ID                        uint                `json:"id"`
	ApplicantID               uint                `json:"id_user_applicant"`
	FullName                  string              `json:"full_name,omitempty"`
	ApplicationType           string              `json:"application_type"`
	Status                    ApplicationStatus   `json:"status_application"`
	Notes                     string              `json:"notes"`
	PaymentStatus             bool                `json:"payment_status"`
	PaymentVerificationStatus PaymentVerification `json:"payment_verification_status"`
	PaymentProofURL           string              `json:"payment_proof_url"`

	FamilyCardURL       string    `json:"kk_url"`
	BirthCertificateURL string    `json:"akta_lahir_url"`
	GuardianIDURL       string    `json:"ktp_ortu_url"`
	PhotoURL            string    `json:"photo_url"`
	SelfieURL           string    `json:"selfie_url"`
	LastDiplomaURL      string    `json:"ijazah_terakhir_url"`
	ReportCardURL       string    `json:"raport_url"`
	TransferLetterURL   string    `json:"surat_pindah_url"`
	NIK                 string    `json:"nik"`
	NISN                string    `json:"nisn"`
	OriginSchool        string    `json:"asal_sekolah"`
	LastEducation       string    `json:"pendidikan_terakhir"`
	LastGrade           string    `json:"grade_terakhir"`
	StudentStatus       string    `json:"student_status"`
	TransferReason      string    `json:"alasan_pindah"`
	GuardianName        string    `json:"parent_fullname"`
	GuardianPhone       string    `json:"parent_phone"`
	GuardianEmail       string    `json:"parent_email"`
	CreatedAt           time.Time `json:"created_at"`

	// Applicant embedded by the backend when it pre-joins the record.
	EmbeddedApplicant *Applicant `json:"otm_id_user_applicant,omitempty"`
}

// HasPaymentProof reports whether a payment proof has been uploaded.
func (a Application) HasPaymentProof() bool {
	return a.PaymentProofURL != ""
}
