package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/logandonley/fontenum/internal/config"
	"github.com/logandonley/fontenum/internal/platform"
	"github.com/logandonley/fontenum/internal/tui"
	"github.com/logandonley/fontenum/pkg/fe"
)

var (
	cfg     config.Config
	session *fe.Session
	log     logr.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fontenum",
	Short: "fontenum lists the installed fonts as the platform's font services see them",
	Long: `List installed fonts through three enumeration services and compare
what each one reports:
- legacy: the oldest listing facility, one entry per family and style
- modern: the system font collection, grouped by family
- fontset: a flat list of faces backed by font files

Examples:
  # List fonts through the font set
  fontenum list

  # List legacy fonts whose family or style contains "mono"
  fontenum list --source legacy --filter mono

  # Browse interactively
  fontenum browse

  # Render a preview of a face as SVG
  fontenum preview "DejaVu Sans" Bold -o dejavu.svg`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if cmd.Flags().Changed("verbose") {
			cfg.Verbosity, _ = cmd.Flags().GetInt("verbose")
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout, _ = cmd.Flags().GetDuration("timeout")
		}
		if cmd.Flags().Changed("source") {
			cfg.Source, _ = cmd.Flags().GetString("source")
		}
		if cmd.Flags().Changed("filter") {
			cfg.Filter, _ = cmd.Flags().GetString("filter")
		}

		log = funcr.New(func(prefix, args string) {
			if prefix != "" {
				fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			} else {
				fmt.Fprintln(os.Stderr, args)
			}
		}, funcr.Options{Verbosity: cfg.Verbosity})

		session = fe.NewSession(fe.WithTimeout(cfg.Timeout), fe.WithLogger(log))
		for _, source := range platform.New(platform.Options{Log: log}).Sources() {
			if err := session.RegisterSource(source); err != nil {
				return fmt.Errorf("registering %s source: %w", source.Name(), err)
			}
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed fonts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := cfg.Kind()
		if err != nil {
			return err
		}
		if err := session.Enumerate(cmd.Context(), kind); err != nil {
			return err
		}
		session.SetQuery(cfg.Filter)

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return fe.RenderJSON(os.Stdout, session.Catalog(), session.View())
		}

		opts := fe.TableOptions{}
		if highlight, _ := cmd.Flags().GetBool("highlight"); highlight {
			opts.Highlight = cfg.Filter
			opts.Output = termenv.NewOutput(os.Stdout)
		}
		if err := fe.RenderTable(os.Stdout, session.Catalog(), session.View(), opts); err != nil {
			return fmt.Errorf("printing fonts: %w", err)
		}
		fmt.Println(session.Status())
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse installed fonts interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := cfg.Kind()
		if err != nil {
			return err
		}
		session.SetQuery(cfg.Filter)
		return tui.Run(cmd.Context(), session, kind, termenv.NewOutput(os.Stdout))
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview FAMILY [STYLE]",
	Short: "Render a sample of a font as SVG",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := cfg.Kind()
		if err != nil {
			return err
		}
		if err := session.Enumerate(cmd.Context(), kind); err != nil {
			return err
		}

		style := ""
		if len(args) > 1 {
			style = args[1]
		}
		font, ok := findFont(session.Catalog(), args[0], style)
		if !ok {
			return fmt.Errorf("font %q not found in %s fonts", strings.TrimSpace(args[0]+" "+style), kind)
		}

		out := os.Stdout
		if path, _ := cmd.Flags().GetString("output"); path != "" && path != "-" {
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating preview file: %w", err)
			}
			defer file.Close()
			out = file
		}
		if err := fe.RenderPreview(out, &font, cfg.PreviewOptions()); err != nil {
			return fmt.Errorf("rendering preview: %w", err)
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Enumerate every available source and compare the results",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session.SetQuery(cfg.Filter)

		var failed []string
		for _, source := range session.Sources() {
			kind := source.Kind()
			start := time.Now()
			if err := session.Enumerate(cmd.Context(), kind); err != nil {
				fmt.Fprintf(os.Stderr, "Error enumerating %s fonts: %v\n", kind, err)
				failed = append(failed, kind.String())
				continue
			}
			fmt.Printf("%-8s %s (%s)\n", kind, session.Status(), time.Since(start).Round(time.Millisecond))
		}
		if len(failed) > 0 {
			return fmt.Errorf("some sources failed: %s", strings.Join(failed, ", "))
		}
		return nil
	},
}

// findFont returns the first font of family, and of style when one is
// given. Names compare without case.
func findFont(fonts []fe.Font, family, style string) (fe.Font, bool) {
	for _, font := range fonts {
		if !strings.EqualFold(font.Family, family) {
			continue
		}
		if style == "" || strings.EqualFold(font.Style, style) {
			return font, true
		}
	}
	return fe.Font{}, false
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(compareCmd)

	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().IntP("verbose", "v", 0, "Log verbosity")
	rootCmd.PersistentFlags().Duration("timeout", fe.DefaultTimeout, "Bound on a single enumeration, 0 for none")

	for _, cmd := range []*cobra.Command{listCmd, browseCmd, previewCmd} {
		cmd.Flags().StringP("source", "s", "", "Enumeration source: legacy, modern or fontset")
	}
	for _, cmd := range []*cobra.Command{listCmd, browseCmd, compareCmd} {
		cmd.Flags().StringP("filter", "f", "", "Only show fonts whose family or style contains this text")
	}
	listCmd.Flags().Bool("json", false, "Print fonts as JSON")
	listCmd.Flags().Bool("highlight", false, "Highlight filter matches")
	previewCmd.Flags().StringP("output", "o", "", "Write the SVG to this file instead of stdout")
}
