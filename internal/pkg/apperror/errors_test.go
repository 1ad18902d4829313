package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("xref table broken")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"client input", ClientInput("Missing query or session ID."), KindClientInput},
		{"not found", NotFound("nothing"), KindNotFound},
		{"extraction", Extraction("Unable to extract text from the document.", cause), KindExtraction},
		{"wrapped", fmt.Errorf("chat: %w", NotFound("nothing")), KindNotFound},
		{"plain error", cause, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.True(t, Is(tt.err, tt.want))
		})
	}
}

func TestExtraction_UnwrapsCause(t *testing.T) {
	cause := errors.New("xref table broken")
	err := Extraction("Unable to extract text from the document.", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "extraction_failure")
	assert.False(t, Is(nil, KindInternal))
}
