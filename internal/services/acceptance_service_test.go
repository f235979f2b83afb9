package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitkudos/gitkudos/internal/models"
	"github.com/gitkudos/gitkudos/internal/payload"
	"github.com/gitkudos/gitkudos/internal/repositories"
)

func TestRepositoryAcceptance(t *testing.T) {
	db := newTestDB(t)
	acceptance := NewAcceptanceService(repositories.NewLabelRepository(db), testLeaderboardConfig())

	testCases := []struct {
		name     string
		topics   []string
		accepted bool
	}{
		{"acceptance topic present", []string{"go", "contributions-accepted"}, true},
		{"acceptance topic absent", []string{"go", "webhooks"}, false},
		{"no topics", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &payload.Repository{ID: 1, Name: "widgets", Topics: tc.topics}
			assert.Equal(t, tc.accepted, acceptance.RepositoryAccepted(repo))

			err := acceptance.CheckRepository(repo)
			if tc.accepted {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNotAcceptable)
			}
		})
	}
}

func TestLabelAcceptance(t *testing.T) {
	db := newTestDB(t)
	labelRepo := repositories.NewLabelRepository(db)
	acceptance := NewAcceptanceService(labelRepo, testLeaderboardConfig())

	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "enhancement", Color: "a2eeef"}))
	require.NoError(t, labelRepo.SetPoints("enhancement", 3))
	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "wontfix", Color: "ffffff"}))

	accepted, err := acceptance.LabelAccepted("enhancement")
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = acceptance.LabelAccepted("wontfix")
	require.NoError(t, err)
	assert.False(t, accepted)

	// A label the store has never seen is a rejection, not a creation.
	accepted, err = acceptance.LabelAccepted("ghost")
	require.NoError(t, err)
	assert.False(t, accepted)

	assert.ErrorIs(t, acceptance.CheckLabel("ghost"), ErrNotAcceptable)
}

func TestIssueAcceptance(t *testing.T) {
	db := newTestDB(t)
	labelRepo := repositories.NewLabelRepository(db)
	acceptance := NewAcceptanceService(labelRepo, testLeaderboardConfig())

	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "enhancement", Color: "a2eeef"}))
	require.NoError(t, labelRepo.SetPoints("enhancement", 3))
	require.NoError(t, labelRepo.Upsert(&models.Label{Name: "wontfix", Color: "ffffff"}))

	accepted, err := acceptance.IssueAccepted([]string{"wontfix", "enhancement"})
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = acceptance.IssueAccepted([]string{"wontfix"})
	require.NoError(t, err)
	assert.False(t, accepted)

	assert.ErrorIs(t, acceptance.CheckIssue(nil), ErrNotAcceptable)
}
