package service

import "strings"

const summarizeTemplate = `
You are a helpful assistant. Summarize the following document concisely:

{document_text}
`

const qaTemplate = `
You are a helpful assistant. Answer the question based on the provided context.

Context:
{context}

Question:
{question}

Answer:
`

// SummarizePrompt renders the summarization prompt for documentText.
func SummarizePrompt(documentText string) string {
	return strings.Replace(summarizeTemplate, "{document_text}", documentText, 1)
}

// QAPrompt renders the question answering prompt.
func QAPrompt(context, question string) string {
	return strings.NewReplacer("{context}", context, "{question}", question).Replace(qaTemplate)
}
