package nlp

import (
	"context"

	loremgen "github.com/bozaro/golorem"
)

// LoremGenerator is a mock generation provider producing lorem ipsum text.
// Used in dev and tests so the service runs without the model host.
type LoremGenerator struct {
	generator *loremgen.Lorem
}

// NewLoremGenerator creates a new lorem generator
func NewLoremGenerator() *LoremGenerator {
	return &LoremGenerator{generator: loremgen.New()}
}

// Generate returns a lorem ipsum paragraph regardless of the prompt
func (g *LoremGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.generator.Paragraph(3, 6), nil
}
