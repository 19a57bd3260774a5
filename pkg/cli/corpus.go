package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/habib-lab/habib/pkg/cli/config"
	"github.com/habib-lab/habib/pkg/domain/model"
	"github.com/habib-lab/habib/pkg/domain/types"
	"github.com/habib-lab/habib/pkg/service/embedding"
	"github.com/habib-lab/habib/pkg/utils/errutil"
	"github.com/habib-lab/habib/pkg/utils/logging"
	"github.com/habib-lab/habib/pkg/utils/safe"
)

func cmdCorpus() *cli.Command {
	return &cli.Command{
		Name:  "corpus",
		Usage: "Manage the course material corpus",
		Commands: []*cli.Command{
			cmdCorpusImport(),
		},
	}
}

// corpusLine is one JSONL record of course material. Embedding is
// optional; records without one are embedded through the provider.
type corpusLine struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

func cmdCorpusImport() *cli.Command {
	var subject string
	var filePath string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var llmCfg config.LLM
	var retrievalCfg config.Retrieval

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "subject",
			Usage:       "Subject ID the passages belong to (required)",
			Required:    true,
			Sources:     cli.EnvVars("HABIB_IMPORT_SUBJECT"),
			Destination: &subject,
		},
		&cli.StringFlag{
			Name:        "file",
			Usage:       "Path to JSONL file with one {\"text\": ...} record per line (required)",
			Required:    true,
			Destination: &filePath,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, retrievalCfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Embed and store course material from a JSONL file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			registry, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load subject configuration")
			}

			subjectID := types.SubjectID(subject)
			if !registry.Has(subjectID) {
				return goerr.New("subject is not registered", goerr.V("subject", subject))
			}

			if err := retrievalCfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid retrieval configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				errutil.Handle(ctx, repo.Close(), "failed to close repository")
			}()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			embedder, err := embedding.New(llmClient, embedding.WithDimension(retrievalCfg.Dimension()))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize embedding service")
			}

			// #nosec G304 - path is expected to be provided by CLI argument
			f, err := os.Open(filePath)
			if err != nil {
				return goerr.Wrap(err, "failed to open corpus file", goerr.V("path", filePath))
			}
			defer safe.Close(ctx, f)

			imported := 0
			lineNo := 0
			scanner := bufio.NewScanner(f)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				lineNo++
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				var record corpusLine
				if err := json.Unmarshal([]byte(line), &record); err != nil {
					return goerr.Wrap(err, "failed to parse corpus line", goerr.V("line", lineNo))
				}
				if strings.TrimSpace(record.Text) == "" {
					logger.Warn("skipping record without text", "line", lineNo)
					continue
				}

				vec := record.Embedding
				if len(vec) == 0 {
					vec, err = embedder.Embed(ctx, record.Text)
					if err != nil {
						return goerr.Wrap(err, "failed to embed passage", goerr.V("line", lineNo))
					}
				} else if len(vec) != embedder.Dimension() {
					return goerr.New("embedding dimension mismatch",
						goerr.V("line", lineNo),
						goerr.V("expected", embedder.Dimension()),
						goerr.V("actual", len(vec)))
				}

				if _, err := repo.Corpus().Put(ctx, subjectID, &model.Passage{
					Text:      record.Text,
					Embedding: vec,
				}); err != nil {
					return goerr.Wrap(err, "failed to store passage", goerr.V("line", lineNo))
				}
				imported++
			}
			if err := scanner.Err(); err != nil {
				return goerr.Wrap(err, "failed to read corpus file", goerr.V("path", filePath))
			}

			total, err := repo.Corpus().Count(ctx, subjectID)
			if err != nil {
				return goerr.Wrap(err, "failed to count passages", goerr.V("subject", subject))
			}

			logger.Info("Corpus import completed",
				"subject", subject,
				"imported", imported,
				"total", total,
			)
			return nil
		},
	}
}
