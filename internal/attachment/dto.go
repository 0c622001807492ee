package attachment

type AttachmentResponse struct {
	Message    string      `json:"message"`
	Attachment *Attachment `json:"attachment"`
}

type AttachmentsResponse struct {
	Attachments []*Attachment `json:"attachments"`
}

// Upload is one file taken from a multipart request.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
}
