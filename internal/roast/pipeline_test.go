package roast

import (
	"context"
	"errors"
	"testing"

	"url-roaster/internal/script"
)

type fakeFetcher struct {
	text  string
	err   error
	calls int
}

func (f *fakeFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeComposer struct {
	script  string
	err     error
	calls   int
	gotText string
	gotMode script.Persona
}

func (f *fakeComposer) Compose(ctx context.Context, text string, persona script.Persona) (string, error) {
	f.calls++
	f.gotText = text
	f.gotMode = persona
	return f.script, f.err
}

type fakeProducer struct {
	jobID       string
	submitErr   error
	videoURL    string
	pollErr     error
	submitCalls int
	pollCalls   int
	gotScript   string
	gotJobID    string
}

func (f *fakeProducer) SubmitVideo(ctx context.Context, scriptText string) (string, error) {
	f.submitCalls++
	f.gotScript = scriptText
	return f.jobID, f.submitErr
}

func (f *fakeProducer) PollVideo(ctx context.Context, jobID string, progress func(string)) (string, error) {
	f.pollCalls++
	f.gotJobID = jobID
	if progress != nil {
		progress("processing")
	}
	return f.videoURL, f.pollErr
}

func TestWriteScript_FetchFeedsComposer(t *testing.T) {
	fetcher := &fakeFetcher{text: "Hello World"}
	composer := &fakeComposer{script: "A biting roast."}
	p := NewPipeline(fetcher, composer, &fakeProducer{})

	got, err := p.WriteScript(context.Background(), "https://example.com", script.PersonaRoast)
	if err != nil {
		t.Fatalf("WriteScript failed: %v", err)
	}
	if composer.gotText != "Hello World" {
		t.Errorf("composer received %q, want scraped text", composer.gotText)
	}
	if composer.gotMode != script.PersonaRoast {
		t.Errorf("composer received persona %v", composer.gotMode)
	}
	if got.Text != "A biting roast." || got.SourceURL != "https://example.com" {
		t.Errorf("unexpected script result: %+v", got)
	}
}

func TestWriteScript_FetchFailureStopsFlow(t *testing.T) {
	fetchErr := errors.New("boom")
	composer := &fakeComposer{}
	p := NewPipeline(&fakeFetcher{err: fetchErr}, composer, &fakeProducer{})

	_, err := p.WriteScript(context.Background(), "https://example.com", script.PersonaHype)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error to surface, got %v", err)
	}
	if composer.calls != 0 {
		t.Error("composer must not run after a fetch failure")
	}
}

func TestWriteScript_ComposeFailureSurfaces(t *testing.T) {
	genErr := errors.New("quota")
	p := NewPipeline(&fakeFetcher{text: "text"}, &fakeComposer{err: genErr}, &fakeProducer{})

	_, err := p.WriteScript(context.Background(), "https://example.com", script.PersonaHype)
	if !errors.Is(err, genErr) {
		t.Fatalf("expected generation error to surface, got %v", err)
	}
}

func TestProduceVideo_SubmitThenPoll(t *testing.T) {
	producer := &fakeProducer{jobID: "vid_1", videoURL: "https://x/v.mp4"}
	p := NewPipeline(&fakeFetcher{}, &fakeComposer{}, producer)

	var statuses []string
	got, err := p.ProduceVideo(context.Background(), "the script", func(s string) {
		statuses = append(statuses, s)
	})
	if err != nil {
		t.Fatalf("ProduceVideo failed: %v", err)
	}
	if producer.gotScript != "the script" || producer.gotJobID != "vid_1" {
		t.Errorf("submit/poll wiring wrong: %+v", producer)
	}
	if got.URL != "https://x/v.mp4" || got.JobID != "vid_1" {
		t.Errorf("unexpected video result: %+v", got)
	}
	if len(statuses) == 0 {
		t.Error("progress callback never invoked")
	}
}

func TestProduceVideo_SubmitFailureSkipsPolling(t *testing.T) {
	producer := &fakeProducer{submitErr: errors.New("402")}
	p := NewPipeline(&fakeFetcher{}, &fakeComposer{}, producer)

	_, err := p.ProduceVideo(context.Background(), "the script", nil)
	if err == nil {
		t.Fatal("expected submission error")
	}
	if producer.pollCalls != 0 {
		t.Error("polling must never start without a job id")
	}
}

func TestProduceVideo_RejectsEmptyScript(t *testing.T) {
	producer := &fakeProducer{}
	p := NewPipeline(&fakeFetcher{}, &fakeComposer{}, producer)

	if _, err := p.ProduceVideo(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty script")
	}
	if producer.submitCalls != 0 {
		t.Error("empty script must not reach submission")
	}
}
