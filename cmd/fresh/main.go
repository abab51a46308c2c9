package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"

	"github.com/freshedit/fresh/internal/config"
	"github.com/freshedit/fresh/internal/logging"
	"github.com/freshedit/fresh/internal/renderer"
)

// cliConfig holds the flags cobra parses, mirroring the teacher's
// cmd/dang/main.go Config struct.
type cliConfig struct {
	Debug     bool
	LogFilter string
	LogFile   string
	TabWidth  int
	File      string
}

func main() {
	var cfg cliConfig

	rootCmd := &cobra.Command{
		Use:   "fresh [flags] [file]",
		Short: "A terminal-based modal code editor",
		Long: `fresh is a terminal code editor: a piece-tree buffer, multi-cursor
editing, incremental search, and LSP-backed completion and diagnostics,
driven entirely from the keyboard and mouse.`,
		Example: `  # Open a file
  fresh main.go

  # Open with verbose logging to a file
  fresh --log-filter debug --log fresh.log main.go`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.File = args[0]
			}
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&cfg.LogFilter, "log-filter", "", `Log level, e.g. "debug"; scope=level pairs such as "lsp=debug" are accepted but do not change filtering`)
	rootCmd.Flags().StringVar(&cfg.LogFile, "log", "", "Write logs to this file instead of stderr")
	rootCmd.Flags().IntVar(&cfg.TabWidth, "editor.tab-width", 0, "Override editor.tab_width for this session")

	rootCmd.AddCommand(manCmd(rootCmd))

	ctx := context.Background()
	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion("v0.1.0"),
		fang.WithCommit("dev"),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliConfig) error {
	var logWriter io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.Create(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	filter := cfg.LogFilter
	if filter == "" && cfg.Debug {
		filter = "debug"
	}
	logger, _, err := logging.Setup(logging.Options{Writer: logWriter, Filter: filter})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	paths, err := config.DefaultPaths()
	if err != nil {
		return fmt.Errorf("resolve config paths: %w", err)
	}
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("create config directories: %w", err)
	}

	projectDir, _ := os.Getwd()
	cfgStore, err := config.Load(paths, projectDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applySessionFlags(cfgStore, cfg)

	var data []byte
	if cfg.File != "" {
		data, err = os.ReadFile(cfg.File)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.File, err)
		}
	}

	logger.InfoContext(ctx, "starting editor", "file", cfg.File)
	prog := renderer.NewProgram(cfgStore, cfg.File, data)
	return renderer.Run(prog)
}

// applySessionFlags writes any CLI overrides into the session config layer
// (highest precedence), addressed through the same kebab-to-snake
// dotted-path conversion the settings dialog's flag-equivalent listing uses
// (internal/config.FlagPath's inverse).
func applySessionFlags(cfgStore *config.Config, cfg cliConfig) {
	if cfg.TabWidth > 0 {
		_ = cfgStore.SetFlag(config.LayerSession, "editor.tab-width", int64(cfg.TabWidth))
	}
}

// manCmd generates a roff man page for the whole command tree, the same
// mango-cobra + roff pipeline charm's own CLIs (e.g. gum) wire a hidden
// "man" subcommand to rather than shipping a separate generator binary.
func manCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:                   "man",
		Short:                 "Generate fresh's man page",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Hidden:                true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manPage, err := mcobra.NewManPage(1, root)
			if err != nil {
				return err
			}
			manPage = manPage.WithSection("Copyright", "(c) 2026 freshedit contributors")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}
}
