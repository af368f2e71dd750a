package signin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "first provider entry wins",
			err: &ProviderError{StatusCode: 422, Errors: []ErrorEntry{
				{Code: "form_password_incorrect", Message: "Invalid password"},
				{Code: "other", Message: "Second"},
			}},
			want: "Invalid password",
		},
		{
			name: "wrapped provider error",
			err: fmt.Errorf("create attempt: %w", &ProviderError{Errors: []ErrorEntry{
				{Message: "Too many requests. Please try again later."},
			}}),
			want: "Too many requests. Please try again later.",
		},
		{
			name: "provider error without entries",
			err:  &ProviderError{StatusCode: 500},
			want: MessageFallback,
		},
		{
			name: "provider entry with empty message",
			err:  &ProviderError{Errors: []ErrorEntry{{Code: "x"}}},
			want: MessageFallback,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: MessageFallback,
		},
		{
			name: "auth error keeps its message",
			err:  &AuthError{Kind: KindIncomplete, Message: MessageIncomplete},
			want: MessageIncomplete,
		},
		{
			name: "nil",
			err:  nil,
			want: MessageFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorMessage(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	provErr := &ProviderError{Errors: []ErrorEntry{{Message: "Invalid password"}}}
	got := classify(ctx, provErr)
	assert.Equal(t, KindProvider, got.Kind)
	assert.Equal(t, "Invalid password", got.Message)
	assert.ErrorIs(t, got, provErr)

	got = classify(ctx, errors.New("dial tcp: refused"))
	assert.Equal(t, KindTransport, got.Kind)
	assert.Equal(t, MessageFallback, got.Message)

	got = classify(ctx, fmt.Errorf("post: %w", context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, got.Kind)
	assert.Equal(t, MessageTimeout, got.Message)

	timed, cancel := context.WithCancelCause(ctx)
	cancel(ErrTimedOut)
	got = classify(timed, context.Canceled)
	assert.Equal(t, KindTimeout, got.Kind)
}

func TestAuthErrorFormatting(t *testing.T) {
	err := &AuthError{Kind: KindProvider, Message: "Invalid password", Err: errors.New("422")}
	assert.Equal(t, "signin: provider: Invalid password: 422", err.Error())

	err = &AuthError{Kind: KindIncomplete, Message: MessageIncomplete}
	assert.Equal(t, "signin: incomplete: "+MessageIncomplete, err.Error())
}
