package admission

// DocumentKind identifies one of the fixed document slots of an application.
type DocumentKind string

const (
	DocFamilyCard       DocumentKind = "family_card"
	DocBirthCertificate DocumentKind = "birth_certificate"
	DocGuardianID       DocumentKind = "guardian_id"
	DocPhoto            DocumentKind = "photo"
	DocSelfie           DocumentKind = "selfie"
	DocLastDiploma      DocumentKind = "last_diploma"
	DocReportCard       DocumentKind = "report_card"
	DocTransferLetter   DocumentKind = "transfer_letter"
)

// DocumentSlot pairs a kind with its display label.
type DocumentSlot struct {
	Kind  DocumentKind
	Label string
}

// DocumentSlots lists every document slot in display order.
var DocumentSlots = []DocumentSlot{
	{DocFamilyCard, "Family card"},
	{DocBirthCertificate, "Birth certificate"},
	{DocGuardianID, "Guardian ID"},
	{DocPhoto, "Photo"},
	{DocSelfie, "Selfie"},
	{DocLastDiploma, "Last diploma"},
	{DocReportCard, "Report card"},
	{DocTransferLetter, "Transfer letter"},
}

// DocumentRef returns the stored reference for kind, or "" when none was uploaded.
func (a Application) DocumentRef(kind DocumentKind) string {
	switch kind {
	case DocFamilyCard:
		return a.FamilyCardURL
	case DocBirthCertificate:
		return a.BirthCertificateURL
	case DocGuardianID:
		return a.GuardianIDURL
	case DocPhoto:
		return a.PhotoURL
	case DocSelfie:
		return a.SelfieURL
	case DocLastDiploma:
		return a.LastDiplomaURL
	case DocReportCard:
		return a.ReportCardURL
	case DocTransferLetter:
		return a.TransferLetterURL
	}
	return ""
}
