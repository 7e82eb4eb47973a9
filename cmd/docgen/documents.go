package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-legaldocs/pkg/orchestrator"
)

var (
	listJSON     bool
	downloadOut  string
	replayPDF    string
	replayMarkup string
	exportOut    string
)

var listCmd = &cobra.Command{
	Use:   "list [client-id]",
	Short: "List documents generated for a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			summaries, err := a.docs.List(ctx, args[0])
			if err != nil {
				return err
			}
			if listJSON {
				return printJSON(cmd, summaries)
			}
			if len(summaries) == 0 {
				cmd.Println("No documents found.")
				return nil
			}
			for _, s := range summaries {
				cmd.Printf("%s  %s  %s\n", s.ID, s.CreatedAt.Format(time.DateTime), s.Title)
			}
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show a generated document record and its data snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			doc, err := a.docs.Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, doc)
		})
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [document-id]",
	Short: "Write a generated PDF to disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			file, err := a.docs.Download(ctx, args[0])
			if err != nil {
				return err
			}
			out := downloadOut
			if out == "" {
				out = file.Name
			}
			if err := os.WriteFile(out, file.Data, 0o644); err != nil {
				return fmt.Errorf("docgen: write %s: %w", out, err)
			}
			cmd.Printf("Saved %s (%d bytes)\n", out, len(file.Data))
			return nil
		})
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay [document-id]",
	Short: "Re-render a generated document from its stored snapshot",
	Long: `Re-renders the stored data snapshot of a generated document with the
current markup of its template. The markup is printed unless --markup names a
file; --pdf also prints it to PDF again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			var (
				replay orchestrator.Replay
				err    error
			)
			if replayPDF != "" {
				replay, err = a.orch.Recompose(ctx, args[0])
			} else {
				replay, err = a.orch.Replay(ctx, args[0])
			}
			if err != nil {
				return err
			}

			if replayMarkup != "" {
				if err := os.WriteFile(replayMarkup, []byte(replay.Markup), 0o644); err != nil {
					return fmt.Errorf("docgen: write %s: %w", replayMarkup, err)
				}
				cmd.Printf("Saved %s\n", replayMarkup)
			} else {
				cmd.Println(replay.Markup)
			}
			if replayPDF != "" {
				if err := os.WriteFile(replayPDF, replay.PDF, 0o644); err != nil {
					return fmt.Errorf("docgen: write %s: %w", replayPDF, err)
				}
				cmd.Printf("Saved %s (%d bytes)\n", replayPDF, len(replay.PDF))
			}
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [document-id...]",
	Short: "Bundle generated PDFs into a ZIP archive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) (err error) {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("docgen: create %s: %w", exportOut, err)
			}
			defer func() {
				if cerr := f.Close(); err == nil && cerr != nil {
					err = fmt.Errorf("docgen: close %s: %w", exportOut, cerr)
				}
				if err != nil {
					_ = os.Remove(exportOut)
				}
			}()
			if err := a.docs.ExportZip(ctx, args, f); err != nil {
				return err
			}
			cmd.Printf("Exported %d documents to %s\n", len(args), exportOut)
			return nil
		})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	downloadCmd.Flags().StringVarP(&downloadOut, "out", "o", "", "output file (default: stored file name)")
	replayCmd.Flags().StringVar(&replayPDF, "pdf", "", "recompose and write the PDF to this file")
	replayCmd.Flags().StringVar(&replayMarkup, "markup", "", "write the rendered markup to this file")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "documentos.zip", "ZIP file to write")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(exportCmd)
}
