package dto

type UploadDocumentResponse struct {
	Message string `json:"message"`
}

// IngestResult summarizes one ingested document.
type IngestResult struct {
	Document string `json:"document"`
	Lines    int    `json:"lines"`
}
