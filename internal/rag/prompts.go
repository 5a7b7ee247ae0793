package rag

// System instructions pin the model to the retrieved context. The citation
// format here is a model-compliance contract checked by the evaluation
// harness, not enforced mechanically.
const (
	qaSystemPrompt = "You are a smart-contract assistant. Answer only using the retrieved context.\n" +
		"If the answer is not in the context, say you don't know.\n" +
		"Always include citations in the format [source.pdf p.X chunk_Y]."

	qaHumanPrompt = "Question: {{.question}}\n\nContext:\n{{.context}}\n\nAnswer with citations: {{.citations}}"

	summarySystemPrompt = "Summarize the uploaded smart contract documents using only the provided context.\n" +
		"Provide a structured summary with sections: purpose, key clauses, risks, missing info, definitions.\n" +
		"Include citations after each point. If information isn't present, say 'I don't know'."

	summaryHumanPrompt = "{{.instruction}}Context:\n{{.context}}\n\nCitations: {{.citations}}"

	// summaryQuery is the fixed broad retrieval query for the summary path.
	summaryQuery = "contract"

	// fallbackInstruction replaces the context when grounding fails; the
	// system prompt then compels an "I don't know" style answer.
	fallbackInstruction = "Summarize the documents.\n\n"
)
