package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinisearch/clinisearch-cli/internal/core/domain"
)

var (
	ingestType string
	ingestID   string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Chunk, embed, and store documents",
	Long: `Reads each file as one document, splits it into token-bounded
chunks, embeds the chunks, and stores the result. Form feed characters
in the file mark page boundaries. Re-ingesting an existing document id
replaces its stored record.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestType, "type", "t", "", "document type (e.g. lab, referral, discharge)")
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document id (single file only; generated when empty)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output manifests as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if ingestID != "" && len(args) > 1 {
		return errors.New("--id applies to a single file")
	}

	ctx := context.Background()
	var manifests []*domain.DocumentManifest

	for _, path := range args {
		doc, err := loadDocument(path)
		if err != nil {
			return err
		}
		doc.Type = ingestType
		doc.ID = ingestID

		manifest, err := ingestService.ProcessDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		manifests = append(manifests, manifest)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(manifests, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal manifests: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, manifest := range manifests {
		printManifest(cmd, manifest)
	}
	return nil
}

// loadDocument reads a file into a document. Form feeds separate pages;
// a file without them is a single page.
func loadDocument(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	filename := filepath.Base(path)
	var pages []domain.Page
	for i, content := range strings.Split(string(data), "\f") {
		pages = append(pages, domain.Page{
			Index:      i,
			Content:    content,
			SourceFile: filename,
		})
	}

	return domain.Document{Pages: pages}, nil
}

func printManifest(cmd *cobra.Command, m *domain.DocumentManifest) {
	cmd.Printf("Ingested %s (%s)\n", m.DocumentID, m.Filename)
	cmd.Printf("  Type:    %s\n", m.DocumentType)
	cmd.Printf("  Pages:   %d\n", m.PageCount)
	cmd.Printf("  Tokens:  %d\n", m.TokenCount)
	cmd.Printf("  Chunks:  %d (avg %.1f tokens, min %d, max %d)\n",
		m.ChunkStats.TotalChunks, m.ChunkStats.AvgTokens,
		m.ChunkStats.MinTokens, m.ChunkStats.MaxTokens)
	cmd.Printf("  Model:   %s (%d dimensions, %s)\n",
		m.EmbeddingStats.Model, m.EmbeddingStats.Dimension, m.EmbeddingStats.ProcessingTime)
	if m.EmbeddingStats.BilledTokens > 0 {
		cmd.Printf("  Billed:  %d tokens ($%.6f)\n",
			m.EmbeddingStats.BilledTokens, m.EmbeddingStats.EstimatedCost)
	}
	cmd.Println()
}
