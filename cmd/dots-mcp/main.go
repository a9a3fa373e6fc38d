package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/dots-mcp/internal/pipeline"
	"github.com/ironsheep/dots-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("dots-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	opts := pipeline.OptionsFromEnv(log.Default())
	if opts.Logger != nil {
		log.Printf("Dots MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("canvas %dx%d pad=%v asset=%s skeleton=%s palette=%s init=%s seed=%d workers=%d",
			opts.Width, opts.Height, opts.Pad, opts.Asset, opts.Skeleton, opts.Palette.Method, opts.Palette.Init,
			opts.Palette.Seed, opts.Workers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(opts)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("dots-mcp - MCP server that turns images into connect-the-dots puzzles")
	fmt.Println()
	fmt.Println("Usage: dots-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  DOTS_MCP_LOG_LEVEL=debug              Enable debug logging")
	fmt.Println("  DOTS_MCP_WIDTH, DOTS_MCP_HEIGHT       Canvas size (default 800x600)")
	fmt.Println("  DOTS_MCP_PAD=true|false               Letterbox onto the canvas (default true)")
	fmt.Println("  DOTS_MCP_ASSET=binary|grayscale       Visual asset (default binary)")
	fmt.Println("  DOTS_MCP_SKELETON=guohall|erosion     Skeleton strategy (default guohall)")
	fmt.Println("  DOTS_MCP_PALETTE=lloyd|kmeans|dominant  Palette backend (default lloyd)")
	fmt.Println("  DOTS_MCP_PALETTE_INIT=random|plusplus  Lloyd starting centres (default random)")
	fmt.Println("  DOTS_MCP_SEED=<int>                   Palette random seed (default 1)")
	fmt.Println("  DOTS_MCP_WORKERS=<int>                Batch concurrency (default: CPU count)")
	fmt.Println("  DOTS_MCP_DEBUG_DIR=<dir>              Write intermediate rasters as PNG")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
