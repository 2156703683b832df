package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	openapitodocx "github.com/iliakrupin/openapi-to-docx"
	"github.com/iliakrupin/openapi-to-docx/describe"
	"github.com/iliakrupin/openapi-to-docx/docx"
	"github.com/iliakrupin/openapi-to-docx/enhance"
	"github.com/iliakrupin/openapi-to-docx/internal/config"
	"github.com/iliakrupin/openapi-to-docx/internal/mcpserver"
	"github.com/iliakrupin/openapi-to-docx/markdown"
	"github.com/iliakrupin/openapi-to-docx/resolve"
	"github.com/iliakrupin/openapi-to-docx/server"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("openapi-to-docx v%s\n", openapitodocx.Version())
	case "help", "-h", "--help":
		printUsage()
	case "generate":
		if err := handleGenerate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := handleServe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// generateFlags contains flags for the generate command
type generateFlags struct {
	output       string
	format       string
	maxEndpoints int
	enhanceDesc  bool
}

func setupGenerateFlags() (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &generateFlags{}

	fs.StringVar(&flags.output, "o", "", "output file (defaults to the input name with a new extension)")
	fs.StringVar(&flags.format, "format", "docx", "output format: docx or md")
	fs.IntVar(&flags.maxEndpoints, "max-endpoints", 0, "maximum number of endpoints to process (0 = all)")
	fs.BoolVar(&flags.enhanceDesc, "enhance", false, "improve descriptions through the configured LLM endpoint")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: openapi-to-docx generate [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Generate documentation from an OpenAPI 3.x specification.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  openapi-to-docx generate openapi.json\n")
		_, _ = fmt.Fprintf(output, "  openapi-to-docx generate --format md -o api.md openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  openapi-to-docx generate --enhance --max-endpoints 20 openapi.json\n")
	}

	return fs, flags
}

func handleGenerate(args []string) error {
	fs, flags := setupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path")
	}
	if flags.format != "docx" && flags.format != "md" {
		return fmt.Errorf("unsupported format %q, expected docx or md", flags.format)
	}

	specPath := fs.Arg(0)
	doc, err := spec.LoadFile(specPath)
	if err != nil {
		return fmt.Errorf("loading specification: %w", err)
	}

	logger := spec.NewSlogAdapter(slog.Default())
	if err := spec.Validate(doc, logger); err != nil {
		return err
	}

	res := resolve.New(doc)
	res.Logger = logger
	gen := markdown.NewGenerator(describe.NewBuilder(res))
	gen.Logger = logger
	gen.MaxEndpoints = flags.maxEndpoints

	if flags.enhanceDesc {
		cfg := config.Load()
		if !cfg.EnhancementConfigured() {
			return fmt.Errorf("enhancement requested but OPENAPITODOCX_LLM_BASE_URL is not set")
		}
		client, err := enhance.NewClient(enhance.Options{
			BaseURL: cfg.LLMBaseURL,
			Token:   cfg.LLMToken,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		gen.Enhancer = client
	}

	md := gen.Generate(context.Background())

	outPath := flags.output
	if outPath == "" {
		stem := strings.TrimSuffix(specPath, filepath.Ext(specPath))
		outPath = stem + "." + flags.format
	}

	var data []byte
	if flags.format == "md" {
		data = []byte(md + "\n")
	} else {
		data, err = docx.Build(md)
		if err != nil {
			return fmt.Errorf("rendering document: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Printf("Generated %s (%d endpoints)\n", outPath, spec.CountEndpoints(doc))
	return nil
}

func handleServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides OPENAPITODOCX_ADDR)")
	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: openapi-to-docx serve [flags]\n\n")
		_, _ = fmt.Fprintf(output, "Run the documentation generation HTTP service.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg := config.Load()
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	var enhancer markdown.Enhancer
	if cfg.EnhancementConfigured() {
		client, err := enhance.NewClient(enhance.Options{
			BaseURL: cfg.LLMBaseURL,
			Token:   cfg.LLMToken,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
			Logger:  spec.NewSlogAdapter(logger),
		})
		if err != nil {
			return err
		}
		enhancer = client
	}

	srv := server.New(cfg, enhancer, logger)
	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Router()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.Addr, "llm_configured", enhancer != nil)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func handleMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

func printUsage() {
	fmt.Println("openapi-to-docx - OpenAPI specification to DOCX documentation generator")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  openapi-to-docx <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  generate   Generate documentation from a specification file")
	fmt.Println("  serve      Run the HTTP generation service")
	fmt.Println("  mcp        Run as an MCP server over stdio")
	fmt.Println("  version    Print the version")
	fmt.Println("  help       Show this help")
	fmt.Println()
	fmt.Println("Run 'openapi-to-docx <command> -h' for command-specific flags.")
}
