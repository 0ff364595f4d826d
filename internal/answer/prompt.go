package answer

import (
	"fmt"
	"strings"

	"github.com/modenalabs/zonda-intel/internal/retrieve"
)

// InsufficientGroundingAnswer is the fixed response when no context
// supports the question. Returning it instead of free generation is what
// keeps the assistant from fabricating enterprise data.
const InsufficientGroundingAnswer = "The requested information is not available in the provided enterprise data."

// systemPrompt builds the grounding instruction with the retrieved
// context inlined, ordered by rank.
func systemPrompt(candidates []retrieve.Candidate) string {
	var b strings.Builder
	b.WriteString(`You are the Zonda R Enterprise Intelligence Assistant, an automotive expert embedded within Pagani Automobili's internal knowledge system.

STRICT RULES:
1. Answer ONLY from the provided context documents below.
2. Do NOT fabricate or invent any information.
3. If the answer is not found in the provided context, respond EXACTLY with:
   "` + InsufficientGroundingAnswer + `"
4. Maintain a professional, precise, and technically authoritative tone.
5. When quoting specifications, be exact.
6. Reference the source document when applicable.

CONTEXT DOCUMENTS:
`)

	for _, c := range candidates {
		fmt.Fprintf(&b, "\n[Source: %s] (Relevance Score: %.3f)\n%s\n", c.Document.Source, c.Score, c.Document.Text)
	}

	return b.String()
}

// sourceIDs collects candidate document IDs in rank order.
func sourceIDs(candidates []retrieve.Candidate) []string {
	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.Document.ID
	}
	return ids
}
