package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func isPlaceholderEmail(email string) bool {
	return strings.HasPrefix(email, "guest-") && strings.HasSuffix(email, "@"+placeholderDomain)
}

func TestGuestIdentityResolver_FirstAttemptSucceeds(t *testing.T) {
	mockIdentity := new(mocks.MockIdentityClient)
	mockProfiles := new(mocks.MockProfileRepository)
	draft := testDraft(domain.MethodDelivery, domain.PaymentPix)

	mockIdentity.On("SignUp", mock.Anything, draft.Email, mock.AnythingOfType("string"), mock.Anything).
		Return(&domain.Account{ID: testAccountID, Email: draft.Email}, nil).Once()
	mockProfiles.On("Upsert", mock.MatchedBy(func(p *domain.Profile) bool {
		return p.AccountID == testAccountID && !p.EmailCorrected && p.CorrectedEmail == ""
	})).Return(nil).Once()

	resolver := NewGuestIdentityResolver(mockIdentity, mockProfiles)
	res, err := resolver.EnsureAccount(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, testAccountID, res.Account.ID)
	assert.False(t, res.Substituted)
	mockIdentity.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}

func TestGuestIdentityResolver_FallsBackToPlaceholderOnce(t *testing.T) {
	mockIdentity := new(mocks.MockIdentityClient)
	mockProfiles := new(mocks.MockProfileRepository)
	draft := testDraft(domain.MethodDelivery, domain.PaymentPix)

	mockIdentity.On("SignUp", mock.Anything, draft.Email, mock.AnythingOfType("string"), mock.Anything).
		Return(nil, errors.New("email already registered")).Once()
	mockIdentity.On("SignUp", mock.Anything, mock.MatchedBy(isPlaceholderEmail), mock.AnythingOfType("string"), mock.Anything).
		Return(&domain.Account{ID: "acct-fallback"}, nil).Once()
	mockProfiles.On("Upsert", mock.MatchedBy(func(p *domain.Profile) bool {
		return p.AccountID == "acct-fallback" &&
			p.EmailCorrected &&
			p.CorrectedEmail == draft.Email
	})).Return(nil).Once()

	resolver := NewGuestIdentityResolver(mockIdentity, mockProfiles)
	res, err := resolver.EnsureAccount(context.Background(), draft)

	require.NoError(t, err)
	assert.True(t, res.Substituted)
	assert.Equal(t, draft.Email, res.OriginalEmail)
	mockIdentity.AssertExpectations(t)
	mockProfiles.AssertExpectations(t)
}

func TestGuestIdentityResolver_BothAttemptsFail(t *testing.T) {
	mockIdentity := new(mocks.MockIdentityClient)
	mockProfiles := new(mocks.MockProfileRepository)
	draft := testDraft(domain.MethodDelivery, domain.PaymentPix)

	mockIdentity.On("SignUp", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).
		Return(nil, errors.New("identity service returned status 503")).Twice()

	resolver := NewGuestIdentityResolver(mockIdentity, mockProfiles)
	res, err := resolver.EnsureAccount(context.Background(), draft)

	assert.ErrorIs(t, err, ErrIdentityUnavailable)
	assert.Nil(t, res)
	mockIdentity.AssertExpectations(t)
	mockProfiles.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestGuestIdentityResolver_ProfileUpsertFailureIsNonFatal(t *testing.T) {
	mockIdentity := new(mocks.MockIdentityClient)
	mockProfiles := new(mocks.MockProfileRepository)
	draft := testDraft(domain.MethodDelivery, domain.PaymentPix)

	mockIdentity.On("SignUp", mock.Anything, draft.Email, mock.AnythingOfType("string"), mock.Anything).
		Return(&domain.Account{ID: testAccountID, Email: draft.Email}, nil).Once()
	mockProfiles.On("Upsert", mock.Anything).Return(errors.New("db down")).Once()

	resolver := NewGuestIdentityResolver(mockIdentity, mockProfiles)
	res, err := resolver.EnsureAccount(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, testAccountID, res.Account.ID)
}
