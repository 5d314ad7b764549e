package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"url-roaster/internal/config"
	"url-roaster/internal/heygen"
	"url-roaster/internal/roast"
	"url-roaster/internal/scrape"
	"url-roaster/internal/script"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	pipeline := roast.NewPipeline(
		scrape.New(cfg),
		script.NewComposer(cfg),
		heygen.NewClient(cfg),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	run(ctx, pipeline)
}

func run(ctx context.Context, pipeline *roast.Pipeline) {
	stdin := bufio.NewReader(os.Stdin)

	fmt.Println("WELCOME TO THE URL ROASTER")

	pageURL := promptURL(stdin)
	persona := promptPersona(stdin)

	result, err := pipeline.WriteScript(ctx, pageURL, persona)
	if err != nil {
		reportScriptFailure(err)
		os.Exit(1)
	}

	fmt.Printf("\nGenerated %s script:\n%q\n\n", strings.ToUpper(persona.String()), result.Text)

	if !confirm(stdin, "Generate video with HeyGen? (consumes credits) [y/N]: ") {
		fmt.Println("\nSkipping video generation. Have a nice day!")
		return
	}

	video, err := pipeline.ProduceVideo(ctx, result.Text, func(status string) {
		fmt.Printf("Rendering... (status: %s)\n", status)
	})
	if err != nil {
		reportVideoFailure(err)
		os.Exit(1)
	}

	fmt.Printf("\nDONE! Watch your video here:\n%s\n", video.URL)
}

func promptURL(stdin *bufio.Reader) string {
	for {
		fmt.Print("Paste a URL to roast (e.g., a startup homepage): ")
		line, _ := stdin.ReadString('\n')
		if url := strings.TrimSpace(line); url != "" {
			return url
		}
		fmt.Println("A URL is required.")
	}
}

func promptPersona(stdin *bufio.Reader) script.Persona {
	for {
		fmt.Print("Choose mode: (1) Roast  (2) Hype Man: ")
		line, _ := stdin.ReadString('\n')
		persona, err := script.ParsePersona(line)
		if err != nil {
			fmt.Println("Please answer 1 or 2.")
			continue
		}
		return persona
	}
}

func confirm(stdin *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func reportScriptFailure(err error) {
	switch {
	case errors.Is(err, scrape.ErrEmptyContent):
		fmt.Println("\nThat page has no readable text to work with.")
	case errors.Is(err, scrape.ErrFetch):
		fmt.Println("\nCould not scrape text from that URL.")
	case errors.Is(err, script.ErrGeneration):
		fmt.Println("\nScript generation failed. Check the Gemini API key or quota. No video credits were spent.")
	default:
		fmt.Printf("\nScript step failed: %v\n", err)
	}
}

func reportVideoFailure(err error) {
	switch {
	case errors.Is(err, heygen.ErrSubmission):
		fmt.Println("\nCould not start the video job (check API credits or key). No job was created.")
	case errors.Is(err, heygen.ErrJobFailed):
		fmt.Println("\nVideo rendering failed at HeyGen. Credits for this job were already consumed.")
	case errors.Is(err, heygen.ErrPollTimeout):
		fmt.Printf("\n%v. The job may still finish on HeyGen's side.\n", err)
	default:
		fmt.Printf("\nVideo step failed: %v\n", err)
	}
}
