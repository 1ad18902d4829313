package constant

// User-facing messages returned by the HTTP API.
const (
	MsgMissingQuery      = "Missing query or session ID."
	MsgNoRelevantContext = "No relevant context found for the specified document."
	MsgNoDocument        = "No document uploaded."
	MsgUnsupportedFormat = "Unsupported file format."
	MsgExtractionFailed  = "Unable to extract text from the document."
	MsgDocumentProcessed = "Document uploaded and processed successfully."
	MsgInvalidBody       = "Invalid request body."
)

// Topics on the in-process event bus.
const (
	TopicChatTurnRecorded = "chat.turn_recorded"
)
