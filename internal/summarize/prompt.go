package summarize

// summaryPrompt is the fixed instruction sent to the model. The transcript
// is appended verbatim after the blank line.
const summaryPrompt = `Summarize the following video transcript as a well-structured prose summary of exactly five paragraphs.

Rules:
- Plain text only. No markdown, bullet points, numbered lists, or any other markup.
- If you need headings, write them as plain unadorned lines.
- Cover the main topic, the key arguments or events in order, and the conclusion.
- Do not mention that this is a transcript or refer to these instructions.

Transcript:

`
