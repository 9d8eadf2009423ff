package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"document-portal/internal/domain"
	"document-portal/internal/repository"
	"document-portal/internal/service"
	"document-portal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	sourceDir    string
	baseDir      string
	workers      int
	registryPath string
	maxFileSize  int64
)

// newExtractor builds the text extractor used by ingest
var newExtractor = func(log domain.Logger) domain.TextExtractor {
	return service.NewPDFProcessor(log)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest every PDF in a directory into its own session",
	Long: `Ingest copies each PDF found directly in the source directory into a
new session named <YYYY-MM-DD>_<file stem>, reads it back and prints a
report with the page count and a text preview.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&sourceDir, "source", service.DefaultBaseDir, "directory to read PDFs from")
	ingestCmd.Flags().StringVar(&baseDir, "base-dir", service.DefaultBaseDir, "directory holding session folders")
	ingestCmd.Flags().IntVar(&workers, "workers", 4, "number of files ingested concurrently")
	ingestCmd.Flags().StringVar(&registryPath, "registry", "", "session registry file to update (empty to skip)")
	ingestCmd.Flags().Int64Var(&maxFileSize, "max-file-size", 50<<20, "maximum PDF size in bytes (0 for no limit)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logger.NewWithWriter(logLevel, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	source, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory: %w", err)
	}

	pdfs, err := service.SourcePDFs(source)
	if err != nil {
		return err
	}

	printHeader(out, source, len(pdfs))
	if len(pdfs) == 0 {
		fmt.Fprintln(out, "  No PDFs found. Nothing to ingest.")
		printFooter(out)
		return nil
	}

	results, err := service.BatchIngest(cmd.Context(), service.BatchOptions{
		SourceDir:   source,
		BaseDir:     baseDir,
		Workers:     workers,
		MaxFileSize: maxFileSize,
	}, newExtractor(log), log)
	if err != nil {
		return err
	}

	if registryPath != "" {
		if err := registerResults(registryPath, results, log); err != nil {
			return err
		}
	}

	for _, res := range results {
		printResult(out, res)
	}
	printFooter(out)
	return nil
}

func registerResults(path string, results []service.BatchResult, log domain.Logger) error {
	repo, err := repository.NewSessionRepository(path, log)
	if err != nil {
		return err
	}
	defer repo.Close()

	for _, res := range results {
		if _, err := repo.Register(res.SessionID, res.SessionDir); err != nil {
			return err
		}
		if err := repo.AddFile(res.SessionID, res.File); err != nil {
			return err
		}
	}
	return nil
}

var (
	line = strings.Repeat("═", 60)
	thin = strings.Repeat("─", 60)
)

func printHeader(w io.Writer, source string, count int) {
	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintln(w, "  DOCUMENT PORTAL - INGESTION")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "  Source directory : %s\n", source)
	fmt.Fprintf(w, "  PDFs found       : %d\n", count)
	fmt.Fprintln(w, line)
}

func printResult(w io.Writer, res service.BatchResult) {
	fmt.Fprintf(w, "\n  %s\n", thin)
	fmt.Fprintf(w, "  FILE         : %s\n", filepath.Base(res.SourceFile))
	fmt.Fprintf(w, "  SESSION ID   : %s\n", res.SessionID)
	fmt.Fprintf(w, "  SESSION DIR  : %s\n", res.SessionDir)
	fmt.Fprintf(w, "  SAVED TO     : %s\n", res.Path)
	fmt.Fprintf(w, "  PAGES        : %d\n", res.PageCount)
	fmt.Fprintf(w, "  TEXT PREVIEW : %s...\n", res.Preview)
	fmt.Fprintf(w, "  PDFs IN DIR  : %s\n", strings.Join(res.Files, ", "))
	fmt.Fprintf(w, "  %s\n", thin)
}

func printFooter(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n  DONE\n%s\n\n", line, line)
}
