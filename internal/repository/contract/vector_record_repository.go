package contract

import "rag-chat-be/pkg/vectorstore"

// VectorRecordRepository is the Postgres-backed vector store.
type VectorRecordRepository interface {
	vectorstore.Store
}
