package domain

// DocumentSource identifies who supplied a document to the archive.
const (
	DocumentSourceChurch = "church"
	DocumentSourceMember = "member"
)

// Document is a scanned record attached to a member. The registry stores the
// file and hands back a delivery URL plus content type.
type Document struct {
	ID             string `json:"_id,omitempty"`
	MemberID       string `json:"memberId"`
	Title          string `json:"title"`
	DocumentType   string `json:"documentType,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	DocumentSource string `json:"documentSource,omitempty"`
	FileURL        string `json:"fileUrl,omitempty"`
	FileType       string `json:"fileType,omitempty"`
	UploadedAt     string `json:"uploadedAt,omitempty"`
}
