package application

import (
	"strings"

	"github.com/linskybing/admission-portal/internal/domain/admission"
)

// UnknownName is shown when no candidate name is available.
const UnknownName = "Unknown"

// Row is an Application prepared for display.
type Row struct {
	admission.Application
	Name      string               `json:"name"`
	Applicant *admission.Applicant `json:"applicant,omitempty"`
	Status    StatusLabel          `json:"display_status"`
}

// nameCandidates is the fixed resolution order of a row's display name.
var nameCandidates = []func(app admission.Application, joined *admission.Applicant) string{
	func(app admission.Application, _ *admission.Applicant) string { return app.FullName },
	func(_ admission.Application, joined *admission.Applicant) string {
		if joined == nil {
			return ""
		}
		return joined.FullName
	},
	func(app admission.Application, _ *admission.Applicant) string {
		if app.EmbeddedApplicant == nil {
			return ""
		}
		return app.EmbeddedApplicant.FullName
	},
	func(app admission.Application, _ *admission.Applicant) string { return app.GuardianName },
	func(app admission.Application, _ *admission.Applicant) string { return app.GuardianEmail },
}

// ResolveName returns the first candidate that is not blank.
func ResolveName(app admission.Application, joined *admission.Applicant) string {
	for _, candidate := range nameCandidates {
		if name := strings.TrimSpace(candidate(app, joined)); name != "" {
			return name
		}
	}
	return UnknownName
}

// Reconcile joins applications to applicants by applicant id. It returns
// one row per application in input order; a missing applicant leaves the
// row's Applicant nil.
func Reconcile(apps []admission.Application, applicants []admission.Applicant) []Row {
	index := make(map[uint]*admission.Applicant, len(applicants))
	for i := range applicants {
		if _, dup := index[applicants[i].ID]; !dup {
			index[applicants[i].ID] = &applicants[i]
		}
	}

	rows := make([]Row, 0, len(apps))
	for _, app := range apps {
		joined := index[app.ApplicantID]
		var applicant *admission.Applicant
		if joined != nil {
			cp := *joined
			applicant = &cp
		}
		rows = append(rows, Row{
			Application: app,
			Name:        ResolveName(app, applicant),
			Applicant:   applicant,
			Status:      DisplayStatus(app),
		})
	}
	return rows
}
