package attachment

import (
	"time"

	attachmentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/attachment"
)

// Attachment records one uploaded file. FileName is the name shown to users,
// FilePath the unique stored name used for download.
type Attachment struct {
	ID          string    `json:"id"`
	GrievanceID string    `json:"grievance_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Attachment) ToDataModel() *attachmentDatamodel.Attachment {
	return &attachmentDatamodel.Attachment{
		ID:          a.ID,
		GrievanceID: a.GrievanceID,
		FileName:    a.FileName,
		FilePath:    a.FilePath,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}

func FromDataModel(a *attachmentDatamodel.Attachment) *Attachment {
	return &Attachment{
		ID:          a.ID,
		GrievanceID: a.GrievanceID,
		FileName:    a.FileName,
		FilePath:    a.FilePath,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}
