package models

// FallbackAnswer is the fixed sentence returned whenever the retrieved
// context does not contain the answer. Must stay a single literal so the
// few-shot examples and the empty-context path agree byte for byte.
const FallbackAnswer = "I do not have the necessary information to answer your question."

const (
	MetaSource   = "source"
	MetaPage     = "page"
	MetaSequence = "sequence"
)

var (
	AnswerPromptTemplate = `CONTEXT:
%s

RULES:
- Answer only based on the CONTEXT.
- If the information is not explicitly in the CONTEXT, reply:
  "` + FallbackAnswer + `"
- Never invent or use outside knowledge.
- Never produce opinions or interpretations beyond what is written.

EXAMPLES OF OUT-OF-CONTEXT QUESTIONS:
Question: "What is the capital of France?"
Answer: "` + FallbackAnswer + `"

Question: "How many clients do we have in 2024?"
Answer: "` + FallbackAnswer + `"

Question: "Do you think this is good or bad?"
Answer: "` + FallbackAnswer + `"

USER QUESTION:
%s

ANSWER THE "USER QUESTION"
`
)

// ExitWords end the interactive session. "sair" kept for parity with the
// Portuguese documents this started out serving.
var ExitWords = []string{"exit", "quit", "q", "sair"}
