// Package packager persists the composed document of a job and bundles its
// block images into a zip archive laid out like the document's image links.
package packager

import (
	"context"
	"fmt"

	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/naming"
	"campaignbuilder/pkg/zip"
)

// Store is the subset of the blob store the packager needs.
type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
}

// Names carries the artifact file names of a job.
type Names struct {
	HTML string
	Zip  string
}

// Output describes the artifacts written for a job.
type Output struct {
	HTML domain.Artifact
	Zip  domain.Artifact
}

type Packager struct {
	store Store
}

func New(store Store) *Packager {
	return &Packager{store: store}
}

// Package writes document to {job}/{names.HTML} and the block archive to
// {job}/{names.Zip}. Archive entries are imagens/{fileName} in block order.
// A failure at any step fails the whole operation, even when the HTML was
// already written.
func (p *Packager) Package(ctx context.Context, job domain.Job, names Names, document string, blocks []domain.Block) (Output, error) {
	if names.HTML == "" || names.Zip == "" {
		return Output{}, fmt.Errorf("packager: artifact names are required: %w", domain.ErrInvalidInput)
	}
	htmlKey, err := p.store.Write(ctx, naming.JobKey(job.ID, names.HTML), []byte(document))
	if err != nil {
		return Output{}, domain.AsStorage("packager: write html", err)
	}

	assets := make([]zip.Asset, 0, len(blocks))
	imageDir := naming.ImageDir(job.ID)
	for _, block := range blocks {
		data, err := p.store.Read(ctx, imageDir+"/"+block.FileName)
		if err != nil {
			// a block the slicer reported as written is gone: storage fault
			return Output{}, fmt.Errorf("packager: read block %q: %v: %w", block.FileName, err, domain.ErrStorage)
		}
		assets = append(assets, zip.Asset{
			Filename: naming.ArchiveEntry(block.FileName),
			Data:     data,
		})
	}
	archive, err := zip.ArchiveAssets(assets, job.CreatedAt)
	if err != nil {
		return Output{}, fmt.Errorf("packager: build archive: %v: %w", err, domain.ErrStorage)
	}
	zipKey, err := p.store.Write(ctx, naming.JobKey(job.ID, names.Zip), archive)
	if err != nil {
		return Output{}, domain.AsStorage("packager: write archive", err)
	}

	return Output{
		HTML: domain.Artifact{JobID: job.ID, Kind: domain.ArtifactKindHTML, FileName: names.HTML, Key: htmlKey, Bytes: int64(len(document))},
		Zip:  domain.Artifact{JobID: job.ID, Kind: domain.ArtifactKindZip, FileName: names.Zip, Key: zipKey, Bytes: int64(len(archive))},
	}, nil
}
