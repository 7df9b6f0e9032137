package service

import (
	"context"
	"testing"
	"time"

	"github.com/levitica/hireflow/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func otpTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assessment.OTPLength = 6
	cfg.Assessment.OTPValidity = 5 * time.Minute
	return cfg
}

func TestOTPRequest_CreatesCandidateAndStoresCode(t *testing.T) {
	candidates := newFakeCandidateRepo()
	store := NewMemoryChallengeStore()
	dispatcher := &fakeDispatcher{}
	svc := NewOTPService(candidates, store, dispatcher, otpTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Ada", "Ada@Example.COM"))

	// Email is normalized before anything is keyed on it.
	candidate, err := candidates.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", candidate.Name)
	assert.False(t, candidate.Verified)

	code, ok, err := store.Get(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, code, 6)

	require.Equal(t, 1, dispatcher.sent())
	assert.Equal(t, OutcomeOTP, dispatcher.outcomes[0].Kind)
	assert.Equal(t, code, dispatcher.outcomes[0].Code)
}

func TestOTPRequest_MailFailureDoesNotInvalidateCode(t *testing.T) {
	candidates := newFakeCandidateRepo()
	store := NewMemoryChallengeStore()
	svc := NewOTPService(candidates, store, &fakeDispatcher{fail: true}, otpTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Ada", "ada@example.com"))

	_, ok, err := store.Get(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, ok, "code must stay stored even when mail delivery fails")
}

func TestOTPVerify_SingleUse(t *testing.T) {
	candidates := newFakeCandidateRepo()
	store := NewMemoryChallengeStore()
	dispatcher := &fakeDispatcher{}
	svc := NewOTPService(candidates, store, dispatcher, otpTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Ada", "ada@example.com"))
	code, _, _ := store.Get(ctx, "ada@example.com")

	verified, reason, err := svc.Verify(ctx, "ada@example.com", code)
	require.NoError(t, err)
	assert.True(t, verified)
	assert.Empty(t, reason)

	candidate, err := candidates.FindByEmail("ada@example.com")
	require.NoError(t, err)
	assert.True(t, candidate.Verified)

	// A replay of the consumed code fails.
	verified, reason, err = svc.Verify(ctx, "ada@example.com", code)
	require.NoError(t, err)
	assert.False(t, verified)
	assert.Equal(t, "No code found. Request a new one.", reason)
}

func TestOTPVerify_WrongCode(t *testing.T) {
	candidates := newFakeCandidateRepo()
	store := NewMemoryChallengeStore()
	svc := NewOTPService(candidates, store, &fakeDispatcher{}, otpTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Ada", "ada@example.com"))

	verified, reason, err := svc.Verify(ctx, "ada@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, verified)
	assert.Equal(t, "Invalid code", reason)

	// The stored code survives a failed attempt.
	_, ok, _ := store.Get(ctx, "ada@example.com")
	assert.True(t, ok)
}

func TestOTPRequest_NewCodeOverwritesOld(t *testing.T) {
	candidates := newFakeCandidateRepo()
	store := NewMemoryChallengeStore()
	svc := NewOTPService(candidates, store, &fakeDispatcher{}, otpTestConfig())
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Ada", "ada@example.com"))
	first, _, _ := store.Get(ctx, "ada@example.com")

	require.NoError(t, svc.Request(ctx, "Ada", "ada@example.com"))
	second, _, _ := store.Get(ctx, "ada@example.com")

	if first != second {
		verified, _, err := svc.Verify(ctx, "ada@example.com", first)
		require.NoError(t, err)
		assert.False(t, verified, "a superseded code must not verify")
	}
	verified, _, err := svc.Verify(ctx, "ada@example.com", second)
	require.NoError(t, err)
	assert.True(t, verified)
}
