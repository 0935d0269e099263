// Package prompt builds the grounded instruction block sent to the
// generation backend.
package prompt

import (
	"fmt"
	"strings"
)

const template = `You are an expert document analyst.

TASK:
Answer the question using ONLY the document content below.

RULES:
- Provide a complete, well-structured answer.
- Do NOT cut sentences.
- Do NOT mention context, AI, model, or prompts.
- If the answer is not present, clearly say it is not found.

DOCUMENT:
%s

QUESTION:
%s

FINAL ANSWER:`

// Build combines retrieved context and the question into a single prompt.
// The grounding rules are textual instructions only; callers must treat the
// generator's output as untrusted with respect to compliance.
func Build(context, question string) string {
	return strings.TrimSpace(fmt.Sprintf(template, context, question))
}
