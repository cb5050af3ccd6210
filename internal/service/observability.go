package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/alexanderramin/peerassign/internal/contract"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// Code is the stable error code of a failed event, empty on success.
func (e UseCaseEvent) Code() contract.AllocationErrorCode {
	if e.Err == nil {
		return ""
	}
	return contract.CodeFor(e.Err)
}

// UseCaseObserver receives an event after every allocate and delete-run call.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs events as slog text records to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

// ObserveUseCase logs successes at INFO. Failures the caller can fix (bad
// roster, stalled draw) go out at WARN with their code; anything else is ERROR.
func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, k, event.Fields[k])
	}

	if event.Err == nil {
		o.logger.InfoContext(ctx, "service_use_case", attrs...)
		return
	}
	code := event.Code()
	attrs = append(attrs, "code", string(code), "error", event.Err.Error())
	if code == contract.ErrCodeInternalError {
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.WarnContext(ctx, "service_use_case", attrs...)
}

// useCase times one call and reports it to the observer when done is called.
type useCase struct {
	observer  UseCaseObserver
	name      string
	startedAt time.Time
	fields    map[string]any
}

func startUseCase(observer UseCaseObserver, name string) *useCase {
	return &useCase{
		observer:  observer,
		name:      name,
		startedAt: time.Now().UTC(),
		fields:    map[string]any{},
	}
}

func (u *useCase) set(key string, value any) { u.fields[key] = value }

func (u *useCase) done(ctx context.Context, err error) {
	u.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.startedAt,
		Duration:  time.Since(u.startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    u.fields,
	})
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}
