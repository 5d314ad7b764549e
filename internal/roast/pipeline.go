// Package roast holds the shared fetch → compose → submit → poll
// orchestration used by both front ends.
package roast

import (
	"context"
	"fmt"
	"log"

	"url-roaster/internal/script"
)

// Fetcher retrieves visible text from a web page.
type Fetcher interface {
	FetchText(ctx context.Context, pageURL string) (string, error)
}

// Composer writes a persona-flavoured script from page text.
type Composer interface {
	Compose(ctx context.Context, text string, persona script.Persona) (string, error)
}

// Producer submits a render job and polls it to completion. Submission is
// billable; the pipeline only reaches it after an explicit user action.
type Producer interface {
	SubmitVideo(ctx context.Context, scriptText string) (string, error)
	PollVideo(ctx context.Context, jobID string, progress func(status string)) (string, error)
}

// Script is the outcome of the fetch+compose half of the flow.
type Script struct {
	SourceURL string
	Persona   script.Persona
	Text      string
}

// Video is the outcome of the submit+poll half.
type Video struct {
	JobID string
	URL   string
}

// Pipeline sequences the four operations. Each step starts only after the
// previous one succeeded, and at most one video job is in flight per call.
type Pipeline struct {
	fetcher  Fetcher
	composer Composer
	producer Producer
}

// NewPipeline wires the three service clients together.
func NewPipeline(fetcher Fetcher, composer Composer, producer Producer) *Pipeline {
	return &Pipeline{fetcher: fetcher, composer: composer, producer: producer}
}

// WriteScript fetches the page and composes a script from it. Fetch and
// generation failures keep their package sentinels so front ends can report
// the failing stage distinctly.
func (p *Pipeline) WriteScript(ctx context.Context, pageURL string, persona script.Persona) (*Script, error) {
	log.Printf("[Roast] Scoping out %s...", pageURL)
	text, err := p.fetcher.FetchText(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	generated, err := p.composer.Compose(ctx, text, persona)
	if err != nil {
		return nil, err
	}

	return &Script{SourceURL: pageURL, Persona: persona, Text: generated}, nil
}

// ProduceVideo submits the script for rendering and polls the resulting job
// until it completes or fails. Polling starts only once a job id exists.
func (p *Pipeline) ProduceVideo(ctx context.Context, scriptText string, progress func(status string)) (*Video, error) {
	if scriptText == "" {
		return nil, fmt.Errorf("no script to render")
	}

	log.Printf("[Roast] Submitting render job...")
	jobID, err := p.producer.SubmitVideo(ctx, scriptText)
	if err != nil {
		return nil, err
	}
	log.Printf("[Roast] Job %s submitted, polling for completion", jobID)

	videoURL, err := p.producer.PollVideo(ctx, jobID, progress)
	if err != nil {
		return nil, err
	}
	return &Video{JobID: jobID, URL: videoURL}, nil
}
