// Package naming derives job identifiers, artifact file names and archive
// entry paths. Every function except JobID is pure.
package naming

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"campaignbuilder/internal/domain"
)

const (
	// ImageDirName is both the job subdirectory holding blocks and the
	// archive prefix referenced by the composed HTML.
	ImageDirName = "imagens"

	jobDirPrefix = "job_"
	zipSuffix    = "-imagens.zip"
	htmlSuffix   = ".html"
	datePrefix   = "20060102"
	jobIDLength  = 8

	// path separators and characters that would break an HTML attribute
	reservedChars = `/\"<>`
)

var lower = cases.Lower(language.Und)

// JobID returns a short random token. It is the first eight hex characters of
// a random UUID, which gives 32 bits of entropy: good enough to keep
// concurrent requests apart within one server lifetime, not a guarantee.
func JobID() string {
	return uuid.NewString()[:jobIDLength]
}

// Slug lower-cases label and replaces spaces with hyphens. Accented
// characters are preserved.
func Slug(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fmt.Errorf("naming: label is required: %w", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(label, reservedChars) {
		return "", fmt.Errorf("naming: label %q contains a reserved character: %w", label, domain.ErrInvalidInput)
	}
	return strings.ReplaceAll(lower.String(label), " ", "-"), nil
}

// HTMLFileName returns {slug}-{token}.html.
func HTMLFileName(label, token string) (string, error) {
	base, err := artifactBase(label, token)
	if err != nil {
		return "", err
	}
	return base + htmlSuffix, nil
}

// ZipFileName returns {slug}-{token}-imagens.zip.
func ZipFileName(label, token string) (string, error) {
	base, err := artifactBase(label, token)
	if err != nil {
		return "", err
	}
	return base + zipSuffix, nil
}

func artifactBase(label, token string) (string, error) {
	slug, err := Slug(label)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("naming: token is required: %w", domain.ErrInvalidInput)
	}
	return slug + "-" + token, nil
}

// DatePrefix formats t as YYYYMMDD.
func DatePrefix(t time.Time) string {
	return t.Format(datePrefix)
}

// BlockFileName returns {YYYYMMDD}_{eventLabel}-{ordinal}{ext}. ext keeps the
// original extension, a leading dot is added when missing.
func BlockFileName(date time.Time, eventLabel string, ordinal int, ext string) (string, error) {
	eventLabel = strings.TrimSpace(eventLabel)
	if eventLabel == "" {
		return "", fmt.Errorf("naming: event label is required: %w", domain.ErrInvalidInput)
	}
	if strings.ContainsAny(eventLabel, reservedChars) {
		return "", fmt.Errorf("naming: event label %q contains a reserved character: %w", eventLabel, domain.ErrInvalidInput)
	}
	if ordinal < 1 {
		return "", fmt.Errorf("naming: ordinal %d must be positive: %w", ordinal, domain.ErrInvalidInput)
	}
	if strings.ContainsAny(ext, reservedChars) {
		return "", fmt.Errorf("naming: extension %q contains a reserved character: %w", ext, domain.ErrInvalidInput)
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s_%s-%d%s", DatePrefix(date), eventLabel, ordinal, ext), nil
}

// ArchiveEntry returns the path a block has inside the zip archive. It is
// also the relative src used by the composed HTML.
func ArchiveEntry(fileName string) string {
	return ImageDirName + "/" + fileName
}

// JobDir returns the storage key of a job's directory.
func JobDir(jobID string) string {
	return jobDirPrefix + jobID
}

// ImageDir returns the storage key of a job's image directory.
func ImageDir(jobID string) string {
	return JobDir(jobID) + "/" + ImageDirName
}

// JobKey joins a file name onto the job directory.
func JobKey(jobID, fileName string) string {
	return JobDir(jobID) + "/" + fileName
}

// DefaultExtension is used when an upload carries no extension.
const DefaultExtension = ".png"

// Extension infers the lower-cased extension of an uploaded file name. An
// extension that would not survive inside an HTML attribute is replaced by
// DefaultExtension.
func Extension(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, "\\", "/")))
	if ext == "" || ext == "." || strings.ContainsAny(ext, reservedChars) {
		return DefaultExtension
	}
	return ext
}

// SourceKey is where the untouched upload of a job is kept, outside the
// image directory so it never ends up in the archive.
func SourceKey(jobID, ext string) string {
	return JobDir(jobID) + "/original" + ext
}
