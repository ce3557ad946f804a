package applicants

import "io"

// UploadedMessage is returned with every successful upload.
const UploadedMessage = "CV uploaded successfully"

// Record is the metadata persisted for each submission, keyed by ApplicantID.
// CVURL is stored under the cv_s3_key attribute and holds the full
// retrieval URL of the uploaded blob.
type Record struct {
	ApplicantID string `json:"applicant_id" dynamodbav:"applicant_id"`
	Name        string `json:"name" dynamodbav:"name"`
	Email       string `json:"email" dynamodbav:"email"`
	CoverLetter string `json:"cover_letter" dynamodbav:"cover_letter"`
	CVURL       string `json:"cv_s3_key" dynamodbav:"cv_s3_key"`
}

// UploadCommand carries a single submission. Size is the declared byte
// length of File and is checked against the upload ceiling before any
// store is contacted.
type UploadCommand struct {
	Name        string
	Email       string
	CoverLetter string
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// UploadResult is the response body of a successful upload.
type UploadResult struct {
	Message     string `json:"message"`
	ApplicantID string `json:"applicant_id"`
	CVURL       string `json:"cv_url"`
}

// BlobKey returns the object key for an applicant's CV.
func BlobKey(applicantID, filename string) string {
	return "cvs/" + applicantID + "_" + filename
}
