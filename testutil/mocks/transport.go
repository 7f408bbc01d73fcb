// Package mocks provides scripted test doubles for the SDK's seams: the
// transport client and the importer capability.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/0xRetroDev/mehsifai-go/types"
)

// SubmitCall records one prompt submission observed by the mock.
type SubmitCall struct {
	Prompt   string
	Variance float64
}

// MockTransport is a scripted stand-in for the HTTP transport client.
// Configure a result or error before use; all fields are guarded for
// concurrent invocations.
type MockTransport struct {
	mu sync.Mutex

	// Scripted responses.
	Result      *types.GenerationResult
	SubmitErr   error
	Data        []byte
	DownloadErr error

	// Delay simulates network latency on both calls.
	Delay time.Duration

	// Optional overrides; when set they win over the scripted fields.
	SubmitFunc   func(ctx context.Context, prompt string, variance float64) (*types.GenerationResult, error)
	DownloadFunc func(ctx context.Context, url string) ([]byte, error)

	submitCalls   []SubmitCall
	downloadCalls []string
}

// Submit implements the transport contract.
func (m *MockTransport) Submit(ctx context.Context, prompt string, variance float64) (*types.GenerationResult, error) {
	m.mu.Lock()
	m.submitCalls = append(m.submitCalls, SubmitCall{Prompt: prompt, Variance: variance})
	fn, delay, result, err := m.SubmitFunc, m.Delay, m.Result, m.SubmitErr
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, types.NewError(types.ErrTransport, "request aborted").WithCause(ctx.Err())
		case <-time.After(delay):
		}
	}
	if fn != nil {
		return fn(ctx, prompt, variance)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Download implements the transport contract.
func (m *MockTransport) Download(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.downloadCalls = append(m.downloadCalls, url)
	fn, delay, data, err := m.DownloadFunc, m.Delay, m.Data, m.DownloadErr
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, types.NewError(types.ErrTransport, "download aborted").WithCause(ctx.Err())
		case <-time.After(delay):
		}
	}
	if fn != nil {
		return fn(ctx, url)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SubmitCalls returns a copy of the recorded submissions.
func (m *MockTransport) SubmitCalls() []SubmitCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SubmitCall, len(m.submitCalls))
	copy(out, m.submitCalls)
	return out
}

// DownloadCalls returns a copy of the recorded download URLs.
func (m *MockTransport) DownloadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.downloadCalls))
	copy(out, m.downloadCalls)
	return out
}
