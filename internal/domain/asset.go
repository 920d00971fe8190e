package domain

// Block is one named, captioned image unit derived from an uploaded image.
type Block struct {
	Ordinal  int
	FileName string
	AltText  string
}

// ArtifactKind enumerates the downloadable files generated per job.
type ArtifactKind string

const (
	ArtifactKindHTML ArtifactKind = "html"
	ArtifactKindZip  ArtifactKind = "zip"
)

// Artifact represents a generated file belonging to a job.
type Artifact struct {
	JobID    string
	Kind     ArtifactKind
	FileName string
	Key      string
	Bytes    int64
}
