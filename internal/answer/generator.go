// Package answer turns role-filtered retrieval candidates into grounded
// responses with a confidence label derived from retrieval scores.
package answer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/modenalabs/zonda-intel/internal/log"
	"github.com/modenalabs/zonda-intel/internal/retrieve"
)

var (
	// ErrUnavailable indicates the language model could not produce a response.
	ErrUnavailable = errors.New("answer: model unavailable")

	// ErrTimeout indicates generation exceeded its deadline.
	ErrTimeout = errors.New("answer: generation timed out")

	// ErrAborted indicates a stream terminated before completion.
	ErrAborted = errors.New("answer: stream aborted")
)

// Result is a completed answer with its provenance.
type Result struct {
	Answer     string
	Sources    []string
	Confidence Confidence
}

// Event is a single element of an answer stream. Exactly one terminal
// event is delivered: Done is set on clean completion, Err on abort.
// Non-terminal events carry incremental Text only.
type Event struct {
	Text string
	Done *Result
	Err  error
}

// Generator produces grounded answers through a genkit model.
type Generator struct {
	g          *genkit.Genkit
	modelName  string
	timeout    time.Duration
	thresholds Thresholds
	logger     log.Logger
}

// NewGenerator creates a Generator using the named model.
func NewGenerator(g *genkit.Genkit, modelName string, timeout time.Duration, thresholds Thresholds, logger log.Logger) *Generator {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Generator{
		g:          g,
		modelName:  modelName,
		timeout:    timeout,
		thresholds: thresholds,
		logger:     logger,
	}
}

// Generate produces a complete answer for the question from the given
// candidates. With no candidates it returns the fixed insufficient
// grounding answer without calling the model.
func (gen *Generator) Generate(ctx context.Context, question string, candidates []retrieve.Candidate) (*Result, error) {
	if len(candidates) == 0 {
		return gen.ungrounded(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, gen.timeout)
	defer cancel()

	resp, err := genkit.Generate(ctx, gen.g,
		ai.WithModelName(gen.modelName),
		ai.WithSystem(systemPrompt(candidates)),
		ai.WithPrompt(question),
	)
	if err != nil {
		return nil, gen.wrapModelErr(err)
	}

	result := gen.buildResult(resp.Text(), candidates)
	gen.logger.Info("answer generated",
		"model", gen.modelName,
		"confidence", string(result.Confidence),
		"sources", len(result.Sources))

	return result, nil
}

// GenerateStream produces an answer incrementally. The returned channel
// yields text fragments followed by exactly one terminal event, then
// closes. The goroutine exits even when the caller abandons the channel,
// provided ctx is cancelled.
func (gen *Generator) GenerateStream(ctx context.Context, question string, candidates []retrieve.Candidate) <-chan Event {
	events := make(chan Event)

	go func() {
		defer close(events)

		if len(candidates) == 0 {
			result := gen.ungrounded()
			if !gen.send(ctx, events, Event{Text: result.Answer}) {
				return
			}
			gen.send(ctx, events, Event{Done: result})
			return
		}

		streamCtx, cancel := context.WithTimeout(ctx, gen.timeout)
		defer cancel()

		resp, err := genkit.Generate(streamCtx, gen.g,
			ai.WithModelName(gen.modelName),
			ai.WithSystem(systemPrompt(candidates)),
			ai.WithPrompt(question),
			ai.WithStreaming(func(cbCtx context.Context, chunk *ai.ModelResponseChunk) error {
				if !gen.send(cbCtx, events, Event{Text: chunk.Text()}) {
					return cbCtx.Err()
				}
				return nil
			}),
		)
		if err != nil {
			gen.logger.Warn("stream aborted", "model", gen.modelName, "error", err)
			gen.send(ctx, events, Event{Err: fmt.Errorf("%w: %w", ErrAborted, gen.wrapModelErr(err))})
			return
		}

		result := gen.buildResult(resp.Text(), candidates)
		gen.logger.Info("answer streamed",
			"model", gen.modelName,
			"confidence", string(result.Confidence),
			"sources", len(result.Sources))
		gen.send(ctx, events, Event{Done: result})
	}()

	return events
}

func (gen *Generator) buildResult(answer string, candidates []retrieve.Candidate) *Result {
	return &Result{
		Answer:     answer,
		Sources:    sourceIDs(candidates),
		Confidence: gen.thresholds.grade(candidates[0].Score),
	}
}

// ungrounded is the fixed answer for questions with no eligible context.
func (gen *Generator) ungrounded() *Result {
	return &Result{
		Answer:     InsufficientGroundingAnswer,
		Sources:    []string{},
		Confidence: ConfidenceLow,
	}
}

func (gen *Generator) wrapModelErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// send delivers an event unless ctx ends first, reporting delivery.
func (gen *Generator) send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
