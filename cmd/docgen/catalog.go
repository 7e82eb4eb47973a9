package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-legaldocs/pkg/catalog"
	"github.com/goliatone/go-legaldocs/pkg/kinds"
	"github.com/goliatone/go-legaldocs/pkg/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed [dir]",
	Short: "Load the template catalog into the store",
	Long: `Upserts every template of a catalog by title. The catalog is read from
the given directory, DOCGEN_TEMPLATES_DIR, or the bundled templates.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			fsys := catalogFS(a, args)
			templates, err := catalog.Seed(ctx, fsys, a.store, a.logger)
			if err != nil {
				return err
			}
			for _, tpl := range templates {
				cmd.Printf("%s  %s\n", tpl.ID, tpl.Title)
			}
			cmd.Printf("Seeded %d templates\n", len(templates))
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Reseed templates whenever a catalog directory changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			dir := a.cfg.TemplatesDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("docgen: watch needs a directory or DOCGEN_TEMPLATES_DIR")
			}
			cmd.Printf("Watching %s\n", dir)
			return catalog.Watch(ctx, dir, a.store,
				catalog.WithWatchLogger(a.logger),
				catalog.WithOnReload(func(templates []store.Template, err error) {
					if err == nil {
						cmd.Printf("Reloaded %d templates\n", len(templates))
					}
				}),
			)
		})
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		return withApp(ctx, func(a *app) error {
			templates, err := a.store.ListTemplates(ctx)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				cmd.Println("No templates found. Run `docgen seed` first.")
				return nil
			}
			for _, tpl := range templates {
				marker := " "
				if !kinds.Default().Has(tpl.Title) {
					marker = "?"
				}
				cmd.Printf("%s %s  %s\n", marker, tpl.ID, tpl.Title)
			}
			return nil
		})
	},
}

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the document kinds with registered field mappers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, title := range kinds.Default().List() {
			cmd.Println(title)
		}
	},
}

func catalogFS(a *app, args []string) fs.FS {
	switch {
	case len(args) == 1:
		return os.DirFS(args[0])
	case a.cfg.TemplatesDir != "":
		return os.DirFS(a.cfg.TemplatesDir)
	default:
		return catalog.TemplatesFS()
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(kindsCmd)
}
