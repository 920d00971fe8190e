// Package slicer turns one uploaded image into an ordered sequence of named,
// captioned blocks.
//
// Slicing is simulated: the default Cutter duplicates the source bytes under
// every block name. No image segmentation happens. A real segmenter can be
// plugged in through WithCutter without changing the composer or packager,
// which only rely on block names and persisted bytes.
package slicer

import (
	"context"
	"fmt"
	"strings"

	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/naming"
)

// DefaultBlockCount is the number of blocks produced per image.
const DefaultBlockCount = 3

// Writer is the subset of the blob store the slicer needs.
type Writer interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Cutter splits an image into n parts.
type Cutter interface {
	Cut(ctx context.Context, img domain.UploadedImage, n int) ([][]byte, error)
}

// DuplicateCutter returns n references to the source bytes.
type DuplicateCutter struct{}

// Cut implements Cutter.
func (DuplicateCutter) Cut(_ context.Context, img domain.UploadedImage, n int) ([][]byte, error) {
	parts := make([][]byte, n)
	for i := range parts {
		parts[i] = img.Data
	}
	return parts, nil
}

// Slicer names blocks and persists their bytes into the job image directory.
type Slicer struct {
	store  Writer
	cutter Cutter
	count  int
}

// Option configures a Slicer.
type Option func(*Slicer)

// WithCount overrides the number of blocks. Values below one are ignored.
func WithCount(n int) Option {
	return func(s *Slicer) {
		if n > 0 {
			s.count = n
		}
	}
}

// WithCutter replaces the duplicating cutter.
func WithCutter(c Cutter) Option {
	return func(s *Slicer) {
		if c != nil {
			s.cutter = c
		}
	}
}

// New creates a Slicer writing through store.
func New(store Writer, opts ...Option) *Slicer {
	s := &Slicer{store: store, cutter: DuplicateCutter{}, count: DefaultBlockCount}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slice produces the blocks for img under job. Either every block is written
// or an error is returned; callers must not rely on a partial result.
func (s *Slicer) Slice(ctx context.Context, job domain.Job, img domain.UploadedImage, eventLabel string) ([]domain.Block, error) {
	blocks := make([]domain.Block, 0, s.count)
	for i := 1; i <= s.count; i++ {
		name, err := naming.BlockFileName(job.CreatedAt, eventLabel, i, img.Extension)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, domain.Block{
			Ordinal:  i,
			FileName: name,
			AltText:  AltText(i, eventLabel),
		})
	}

	parts, err := s.cutter.Cut(ctx, img, s.count)
	if err != nil {
		return nil, domain.AsStorage("slicer: cut image", err)
	}
	if len(parts) != len(blocks) {
		return nil, fmt.Errorf("slicer: cutter returned %d parts for %d blocks: %w", len(parts), len(blocks), domain.ErrStorage)
	}

	imageDir := naming.ImageDir(job.ID)
	for i, block := range blocks {
		if _, err := s.store.Write(ctx, imageDir+"/"+block.FileName, parts[i]); err != nil {
			return nil, domain.AsStorage(fmt.Sprintf("slicer: write block %d", block.Ordinal), err)
		}
	}
	return blocks, nil
}

// AltText captions a block: "Block {ordinal} of campaign {label}", with the
// label's hyphens turned into spaces.
func AltText(ordinal int, eventLabel string) string {
	return fmt.Sprintf("Block %d of campaign %s", ordinal, strings.ReplaceAll(eventLabel, "-", " "))
}
