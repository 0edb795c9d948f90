package shell

import (
	"context"
	"strings"
)

// MockRunner is a Runner for tests. It records every invocation and serves
// canned output keyed by the joined argv string.
type MockRunner struct {
	// Outputs maps a space-joined argv to the output Run should return.
	Outputs map[string]string

	// Calls records every Run invocation in order, space-joined.
	Calls []string

	// InteractiveCalls records every Interactive invocation, space-joined.
	InteractiveCalls []string

	// InteractiveErr is returned by Interactive when set.
	InteractiveErr error
}

func (m *MockRunner) Run(ctx context.Context, argv ...string) string {
	key := strings.Join(argv, " ")
	m.Calls = append(m.Calls, key)
	return m.Outputs[key]
}

func (m *MockRunner) Interactive(ctx context.Context, argv ...string) error {
	m.InteractiveCalls = append(m.InteractiveCalls, strings.Join(argv, " "))
	return m.InteractiveErr
}
