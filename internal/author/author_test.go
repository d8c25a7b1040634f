package author

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixed(name string) Provider {
	return Provider{Name: name, Resolve: func(context.Context, string) (string, error) {
		return name, nil
	}}
}

func failing(name string) Provider {
	return Provider{Name: name, Resolve: func(context.Context, string) (string, error) {
		return "", errors.New(name + " failed")
	}}
}

func TestResolveFirstSuccessWins(t *testing.T) {
	r := NewResolver().WithProviders(failing("a"), fixed("b"), fixed("c"))
	assert.Equal(t, "b", r.Resolve(context.Background(), "doc.md"))
}

func TestResolveAllFailersYieldUnknown(t *testing.T) {
	r := NewResolver().WithProviders(failing("a"), failing("b"))
	assert.Equal(t, Unknown, r.Resolve(context.Background(), "doc.md"))
}

func TestResolveEmptyResultMovesOn(t *testing.T) {
	empty := Provider{Name: "empty", Resolve: func(context.Context, string) (string, error) {
		return "", nil
	}}
	r := NewResolver().WithProviders(empty, fixed("next"))
	assert.Equal(t, "next", r.Resolve(context.Background(), "doc.md"))
}

func TestResolveTimeoutDegradesToNextProvider(t *testing.T) {
	slow := Provider{Name: "slow", Resolve: func(ctx context.Context, _ string) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}

	r := NewResolver().WithProviders(slow, fixed("fast")).WithTimeout(20 * time.Millisecond)

	start := time.Now()
	got := r.Resolve(context.Background(), "doc.md")
	assert.Equal(t, "fast", got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolveHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver().WithProviders(fixed("never"))
	assert.Equal(t, Unknown, r.Resolve(ctx, "doc.md"))
}

func TestEnvironmentAuthorComposesNameAndEmail(t *testing.T) {
	t.Setenv("AUTHOR_NAME", "Jane Doe")
	t.Setenv("AUTHOR_EMAIL", "jane@example.com")

	got, err := environmentAuthor(context.Background(), "doc.md")
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe <jane@example.com>", got)
}

func TestEnvironmentAuthorNameOnly(t *testing.T) {
	t.Setenv("AUTHOR_NAME", "Jane Doe")
	t.Setenv("AUTHOR_EMAIL", "")
	t.Setenv("USER_EMAIL", "")

	got, err := environmentAuthor(context.Background(), "doc.md")
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", got)
}
