package embedding

import (
	"context"

	"rag-chat-be/pkg/utils"
)

// Task types understood by providers that embed queries and documents differently.
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// EmbeddingProvider maps text into a fixed-dimension vector space. Queries and
// ingested lines must go through the same provider and model.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
	// GenerateBatch returns one vector per input, in input order.
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

type retryingProvider struct {
	next   EmbeddingProvider
	policy utils.RetryPolicy
}

// WithRetry wraps a provider so every call gets a per-attempt timeout and bounded retries.
func WithRetry(next EmbeddingProvider, policy utils.RetryPolicy) EmbeddingProvider {
	return &retryingProvider{next: next, policy: policy}
}

func (p *retryingProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	return utils.Retry(ctx, p.policy, func(ctx context.Context) (*EmbeddingResponse, error) {
		return p.next.Generate(ctx, text, taskType)
	})
}

func (p *retryingProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	return utils.Retry(ctx, p.policy, func(ctx context.Context) ([][]float32, error) {
		return p.next.GenerateBatch(ctx, texts, taskType)
	})
}
