package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"flowpaint/internal/canvas"
	"flowpaint/internal/document"
	"flowpaint/internal/export"
	"flowpaint/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var pngOut, svgOut, txtOut string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a drawing to PNG, SVG or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pngOut == "" && svgOut == "" && txtOut == "" {
				return errors.New("give at least one of --png, --svg or --txt")
			}
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			sc := export.FromDocument(doc)
			outputs := []struct {
				path   string
				format export.Format
			}{
				{pngOut, export.FormatPNG},
				{svgOut, export.FormatSVG},
				{txtOut, export.FormatTXT},
			}
			for _, out := range outputs {
				if out.path == "" {
					continue
				}
				path := out.path
				if filepath.Ext(path) == "" {
					path += out.format.Ext()
				}
				path = app.cfg.GetSavePath(path)
				if err := export.SaveFileAs(path, out.format, sc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pngOut, "png", "", "write a PNG image")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write an SVG image")
	cmd.Flags().StringVar(&txtOut, "txt", "", "write the terminal rendering as text")
	return cmd
}

func newInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a drawing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return err
			}
			// Loading through the canvas applies connection validation.
			c := canvas.New(canvas.Options{
				Logger:     log.New(cmd.ErrOrStderr(), "[canvas] ", 0),
				SnapRadius: app.cfg.SnapRadius,
			})
			c.Load(doc)
			return writeInfo(cmd.OutOrStdout(), doc, c)
		},
	}
}

func writeInfo(w io.Writer, doc document.Document, c *canvas.Canvas) error {
	counts := map[string]int{}
	var order []string
	for i := 0; i < c.Len(); i++ {
		kind := c.Shape(i).Kind.String()
		if counts[kind] == 0 {
			order = append(order, kind)
		}
		counts[kind]++
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "page\t%gx%g\n", doc.Size.Width, doc.Size.Height)
	fmt.Fprintf(tw, "background\t%s\n", doc.BackgroundColor)
	fmt.Fprintf(tw, "grid\t%d\n", doc.GridSize)
	fmt.Fprintf(tw, "shapes\t%d\n", c.Len())
	for _, kind := range order {
		fmt.Fprintf(tw, "  %s\t%d\n", kind, counts[kind])
	}
	fmt.Fprintf(tw, "connections\t%d\n", len(c.Connections()))
	if dropped := len(doc.Connections) - len(c.Connections()); dropped > 0 {
		fmt.Fprintf(tw, "  dropped\t%d\n", dropped)
	}
	return tw.Flush()
}

func newLibraryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the drawing library",
	}

	withStore := func(fn func(cmd *cobra.Command, s *store.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(app.cfg.LibraryPath())
			if err != nil {
				return err
			}
			defer s.Close()
			s.SetLogger(log.New(cmd.ErrOrStderr(), "[store] ", 0))
			return fn(cmd, s, args)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved drawings",
		Args:  cobra.NoArgs,
		RunE: withStore(func(cmd *cobra.Command, s *store.Store, args []string) error {
			drawings, err := s.List()
			if err != nil {
				return err
			}
			if len(drawings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(library is empty)")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSHAPES\tUPDATED")
			for _, d := range drawings {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Shapes, d.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name> <file>",
		Short: "Store a drawing file under name",
		Args:  cobra.ExactArgs(2),
		RunE: withStore(func(cmd *cobra.Command, s *store.Store, args []string) error {
			doc, err := document.ReadFile(args[1])
			if err != nil {
				return err
			}
			if err := s.Save(args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[0])
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "open <name> <file>",
		Short: "Write a stored drawing to file",
		Args:  cobra.ExactArgs(2),
		RunE: withStore(func(cmd *cobra.Command, s *store.Store, args []string) error {
			doc, err := s.Load(args[0])
			if err != nil {
				return err
			}
			out := app.cfg.GetSavePath(args[1])
			if err := document.WriteFile(out, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Remove a drawing from the library",
		Args:    cobra.ExactArgs(1),
		RunE: withStore(func(cmd *cobra.Command, s *store.Store, args []string) error {
			if err := s.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		}),
	})

	return cmd
}
