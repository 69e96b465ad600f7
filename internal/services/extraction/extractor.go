package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/meetsync/meetsync-api/internal/models"
)

var (
	// ErrJSONDecode indicates the model output could not be parsed as JSON
	ErrJSONDecode = errors.New("model output is not valid JSON")

	// ErrUnexpectedFormat indicates the model output parsed but is not a JSON object
	ErrUnexpectedFormat = errors.New("model output is not a JSON object")
)

// Generator produces a text completion for a prompt
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor pulls structured contact fields out of transcript text using a
// generative model
type Extractor struct {
	generator Generator
}

// NewExtractor creates an extractor backed by the given generator
func NewExtractor(generator Generator) *Extractor {
	return &Extractor{generator: generator}
}

// BuildPrompt assembles the extraction prompt for a transcript. When hostNames
// is non-empty the prompt carries a duplicate resolution rule so that values
// stated by a non-host participant win over the host's on conflict.
func BuildPrompt(transcriptText string, hostNames []string) string {
	var b strings.Builder

	b.WriteString("You are extracting contact information from a meeting transcript.\n\n")
	b.WriteString("Return a single JSON object. Only the following keys are allowed:\n")
	for _, field := range models.AllContactFields() {
		b.WriteString("- ")
		b.WriteString(string(field))
		b.WriteString("\n")
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Only include a field if its value is explicitly stated in the transcript.\n")
	b.WriteString("- Never invent, guess, or fill in placeholder or example data.\n")
	b.WriteString("- If no contact information is mentioned, return {}.\n")
	b.WriteString("- Respond with the JSON object only, no explanation or commentary.\n")

	if len(hostNames) > 0 {
		b.WriteString("\nThe meeting hosts are: ")
		b.WriteString(strings.Join(hostNames, ", "))
		b.WriteString(".\n")
		b.WriteString("If a host and another participant state conflicting values for the same field, use the participant's value, not the host's.\n")
	}

	b.WriteString("\nTranscript:\n")
	b.WriteString(transcriptText)

	return b.String()
}

// Extract runs the model over the transcript text and returns the cleaned
// contact field mapping. The result may be empty when the transcript mentions
// no usable contact information.
func (e *Extractor) Extract(ctx context.Context, transcriptText string, hostNames []string) (models.ContactInfo, error) {
	raw, err := e.generator.Complete(ctx, BuildPrompt(transcriptText, hostNames))
	if err != nil {
		return nil, fmt.Errorf("generating extraction: %w", err)
	}

	cleaned := stripCodeFences(raw)

	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJSONDecode, err)
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrUnexpectedFormat, decoded)
	}

	info := models.ContactInfo{}
	for key, value := range object {
		if !models.IsContactField(key) {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if IsPlaceholder(models.ContactField(key), text) {
			continue
		}
		info[key] = text
	}

	return info, nil
}

// stripCodeFences removes markdown code fence markers models often wrap
// around JSON output
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
