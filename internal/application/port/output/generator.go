package output

import "context"

// Generator is the text-generation backend used to produce task lists,
// patches, and critiques. Calls are synchronous; the backend never retries
// internally, retry policy belongs to the engine.
type Generator interface {
	// Generate produces an artifact from a prompt and optional prior
	// examples. A failure is reported as an error, never swallowed.
	Generate(ctx context.Context, prompt string, examples []string) (string, error)
}
