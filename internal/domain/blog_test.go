package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/travelhub/backend/internal/domain"
)

func TestVisibility_Allows(t *testing.T) {
	var (
		participant  = domain.Audience{IsParticipant: true}
		ownersFriend = domain.Audience{IsOwnerFriend: true}
		memberFriend = domain.Audience{IsParticipantFriend: true}
		stranger     = domain.Audience{}
	)
	tests := []struct {
		visibility domain.Visibility
		audience   domain.Audience
		want       bool
	}{
		{domain.VisibilityPublic, stranger, true},
		{domain.VisibilityPrivate, participant, true},
		{domain.VisibilityPrivate, ownersFriend, false},
		{domain.VisibilityPrivate, stranger, false},
		{domain.VisibilityForMyFriends, ownersFriend, true},
		{domain.VisibilityForMyFriends, memberFriend, false},
		{domain.VisibilityForMyFriends, stranger, false},
		{domain.VisibilityForTripParticipantsFriends, ownersFriend, true},
		{domain.VisibilityForTripParticipantsFriends, memberFriend, true},
		{domain.VisibilityForTripParticipantsFriends, stranger, false},
		{domain.Visibility("unknown"), ownersFriend, false},
		{domain.Visibility("unknown"), participant, true},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.visibility.Allows(tc.audience), "%s %+v", tc.visibility, tc.audience)
	}
}

func TestVisibility_Valid(t *testing.T) {
	assert.True(t, domain.VisibilityForTripParticipantsFriends.Valid())
	assert.False(t, domain.Visibility("friends").Valid())
	assert.False(t, domain.Visibility("").Valid())
}
