package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/infra"
	"campaignbuilder/internal/naming"
	"campaignbuilder/internal/patcher"
	"campaignbuilder/internal/pipeline"
)

type buildOptions struct {
	template string
	image    string
	title    string
	snippet  string
	cta      string
	campaign string
	dataDir  string
	catalog  string
	blocks   int
}

type patchOptions struct {
	in      string
	out     string
	subject string
	snippet string
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "campaign",
		Short:         "Build campaign HTML documents and patch generated ones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline transitions")
	root.AddCommand(newBuildCmd(&verbose), newPatchCmd())
	return root
}

func newBuildCmd(verbose *bool) *cobra.Command {
	opts := buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run one generation job against a local data directory",
		Long: `build runs the same pipeline as POST /gerar-html: the image is split into
named blocks, the document is composed from the template skeleton and both
artifacts are written under <data-dir>/job_<id>/.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, *verbose)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.template, "template", "", "template name (also used for artifact names)")
	f.StringVar(&opts.image, "image", "", "path of the campaign image")
	f.StringVar(&opts.title, "title", "", "subject line")
	f.StringVar(&opts.snippet, "snippet", "", "preview snippet")
	f.StringVar(&opts.cta, "cta", "", "call to action URL")
	f.StringVar(&opts.campaign, "campaign", "", "event label used in block names (defaults to the template)")
	f.StringVar(&opts.dataDir, "data-dir", envOr("DATA_DIR", "data"), "root directory for job output")
	f.StringVar(&opts.catalog, "catalog", os.Getenv("TEMPLATE_CATALOG"), "YAML template catalog")
	f.IntVar(&opts.blocks, "blocks", 3, "number of blocks per image")
	for _, name := range []string{"template", "image", "title", "snippet"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runBuild(ctx context.Context, stdout, stderr io.Writer, opts buildOptions, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(opts.image)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	env := "production"
	if verbose {
		env = "development"
	}
	logger := infra.NewLoggerTo(stderr, env)
	if !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}
	cfg := &infra.Config{
		DataDir:         opts.dataDir,
		BlockCount:      opts.blocks,
		TemplateCatalog: opts.catalog,
		DefaultCTAURL:   "#",
	}
	jobs, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	name := filepath.Base(opts.image)
	res, err := jobs.Submit(ctx, domain.Submission{
		Template:   opts.template,
		Subject:    opts.title,
		Snippet:    opts.snippet,
		EventLabel: opts.campaign,
		CTAURL:     opts.cta,
		Image:      domain.UploadedImage{Filename: name, Data: data, Extension: naming.Extension(name)},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "OK\nHTML: %s\nZIP:  %s\n",
		filepath.Join(opts.dataDir, naming.JobKey(res.JobID, res.HTML.FileName)),
		filepath.Join(opts.dataDir, naming.JobKey(res.JobID, res.Zip.FileName)))
	return nil
}

func newPatchCmd() *cobra.Command {
	opts := patchOptions{}
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Rewrite the subject and snippet of a generated document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "-", "input HTML file, - for stdin")
	f.StringVar(&opts.out, "out", "-", "output HTML file, - for stdout")
	f.StringVar(&opts.subject, "subject", "", "subject to insert into <title>")
	f.StringVar(&opts.snippet, "snippet", "", "replacement snippet")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("snippet")
	return cmd
}

func runPatch(stdin io.Reader, stdout io.Writer, opts patchOptions) error {
	var doc []byte
	var err error
	if opts.in == "-" {
		doc, err = io.ReadAll(stdin)
	} else {
		doc, err = os.ReadFile(opts.in)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	out := patcher.Patch(string(doc), opts.subject, opts.snippet)
	if opts.out == "-" {
		_, err = io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(opts.out, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
