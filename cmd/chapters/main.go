package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kanno/yt-chapters-go/internal/app"
	"github.com/kanno/yt-chapters-go/internal/config"
	"github.com/kanno/yt-chapters-go/internal/constants"
	"github.com/kanno/yt-chapters-go/internal/prompt"
	"github.com/kanno/yt-chapters-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	modelFlag := flag.String("model", "", "model identifier or alias (default "+constants.DefaultGeminiModel+")")
	promptFlag := flag.String("prompt", "", "path to a file replacing the built-in instruction template")
	langFlag := flag.String("lang", "", "subtitle language code (default en)")
	timedFlag := flag.Bool("timed", false, "keep per-entry timestamps in the prompt transcript")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <video_url>\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Generates YouTube chapter markers from a video's subtitles and live chat.")
		fmt.Fprintln(flag.CommandLine.Output(), "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	videoURL := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	if *modelFlag != "" {
		cfg.Gemini.Model = constants.ResolveModelAlias(*modelFlag)
	}
	if *langFlag != "" {
		cfg.Downloader.SubtitleLang = *langFlag
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	var instructions string
	if *promptFlag != "" {
		instructions, err = prompt.LoadInstructionsFile(*promptFlag)
		if err != nil {
			fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}
	pipeline.TimedTranscript = *timedFlag

	logger.Info("Generating chapters",
		zap.String("url", videoURL),
		zap.String("model", cfg.Gemini.Model),
	)

	result, err := pipeline.Run(ctx, videoURL, instructions)
	if err != nil {
		fatal(err)
	}

	fmt.Println("Generated Chapter Markers:")
	fmt.Println("===========================")
	fmt.Println(result.List.Render())
	fmt.Println("===========================")
	fmt.Printf("\nSaved to %s\n", result.ArtifactPath)
	fmt.Println("You can paste the block directly into the video description.")
}

// fatal prints a single explanatory line and exits non-zero. No partial
// output survives; the artifact writer is atomic.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
