package domain

import "time"

// JobState enumerates the stages a generation request moves through.
type JobState string

const (
	JobStateReceived          JobState = "received"
	JobStateImagePersisted    JobState = "image_persisted"
	JobStateBlocksGenerated   JobState = "blocks_generated"
	JobStateDocumentComposed  JobState = "document_composed"
	JobStateArtifactsPackaged JobState = "artifacts_packaged"
	JobStateCompleted         JobState = "completed"
	JobStateFailed            JobState = "failed"
)

// Job identifies one request. Its files live under naming.JobDir(ID).
type Job struct {
	ID        string
	CreatedAt time.Time
}

// UploadedImage is the source image received with a submission.
type UploadedImage struct {
	Filename  string
	Data      []byte
	Extension string
}

// Submission carries the inputs of a generation request.
type Submission struct {
	Template   string
	Subject    string
	Snippet    string
	EventLabel string
	CTAURL     string
	Image      UploadedImage
}

// Locator addresses an artifact as {jobID}/{fileName}.
type Locator struct {
	JobID    string
	FileName string
	URL      string
}

// Path returns the job-relative locator path.
func (l Locator) Path() string {
	return l.JobID + "/" + l.FileName
}

// Result is returned for a completed job.
type Result struct {
	JobID string
	HTML  Locator
	Zip   Locator
}
