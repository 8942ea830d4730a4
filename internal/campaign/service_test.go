// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package campaign_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangtruong/mailcamp/internal/campaign"
	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/pkg/pagination"
	"github.com/dangtruong/mailcamp/pkg/pointer"
)

// # Test Doubles

type fakeRepository struct {
	byID   map[string]*campaign.Campaign
	bySlug map[string]*campaign.Campaign
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:   make(map[string]*campaign.Campaign),
		bySlug: make(map[string]*campaign.Campaign),
	}
}

func (r *fakeRepository) Create(_ context.Context, c *campaign.Campaign) error {
	if _, taken := r.bySlug[c.Slug]; taken {
		return apperr.Conflict("Campaign already exists")
	}
	r.byID[c.ID] = c
	r.bySlug[c.Slug] = c
	return nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*campaign.Campaign, error) {
	if c, found := r.byID[id]; found {
		return c, nil
	}
	return nil, apperr.NotFound("Campaign")
}

func (r *fakeRepository) FindBySlug(_ context.Context, slug string) (*campaign.Campaign, error) {
	if c, found := r.bySlug[slug]; found {
		return c, nil
	}
	return nil, apperr.NotFound("Campaign")
}

func (r *fakeRepository) List(_ context.Context, filter campaign.Filter, _ pagination.Params) ([]campaign.Campaign, int, error) {
	matches := make([]campaign.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, c.Status) {
			continue
		}
		if filter.OwnerID != "" && c.OwnerID != filter.OwnerID {
			continue
		}
		matches = append(matches, *c)
	}
	return matches, len(matches), nil
}

func (r *fakeRepository) Update(_ context.Context, c *campaign.Campaign) error {
	r.byID[c.ID] = c
	r.bySlug[c.Slug] = c
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	c, found := r.byID[id]
	if !found {
		return apperr.NotFound("Campaign")
	}
	delete(r.byID, id)
	delete(r.bySlug, c.Slug)
	return nil
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

// # Fixtures

func newTestService() (*campaign.Service, *fakeRepository) {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return campaign.NewService(repo, logger), repo
}

func managerClaims(userID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Roles: []string{"manager"}}
}

func adminClaims(userID string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Roles: []string{"admin"}}
}

/*
TestService_Create verifies a new campaign starts as a draft with a slug
derived from its name.
*/
func TestService_Create(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), campaign.CreateInput{
		OwnerID: "user-1",
		Name:    "Summer Sale 2026",
		Subject: "Our biggest discounts yet",
		Body:    "<p>Hello!</p>",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, campaign.StatusDraft, created.Status)
	assert.Equal(t, "summer-sale-2026", created.Slug)
	assert.Equal(t, "user-1", created.OwnerID)
}

/*
TestService_Get verifies resolution by UUID and by slug through the same
entry point.
*/
func TestService_Get(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), campaign.CreateInput{
		OwnerID: "user-1",
		Name:    "Welcome Series",
		Subject: "Welcome aboard",
		Body:    "body",
	})
	require.NoError(t, err)

	byID, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	bySlug, err := service.Get(context.Background(), "welcome-series")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
}

/*
TestService_Update_Ownership verifies only the owner or an admin can modify
a campaign.
*/
func TestService_Update_Ownership(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), campaign.CreateInput{
		OwnerID: "owner-1",
		Name:    "Owned Campaign",
		Subject: "subject",
		Body:    "body",
	})
	require.NoError(t, err)

	newSubject := pointer.To("Updated subject")

	// A different manager is rejected
	_, err = service.Update(context.Background(), managerClaims("intruder"), created.ID, campaign.UpdateInput{
		Subject: newSubject,
	})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// The owner succeeds
	updated, err := service.Update(context.Background(), managerClaims("owner-1"), created.ID, campaign.UpdateInput{
		Subject: newSubject,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated subject", updated.Subject)

	// An admin also succeeds
	_, err = service.Update(context.Background(), adminClaims("admin-1"), created.ID, campaign.UpdateInput{
		Body: pointer.To("admin body"),
	})
	assert.NoError(t, err)
}

/*
TestService_Update_Rename verifies renaming regenerates the slug.
*/
func TestService_Update_Rename(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), campaign.CreateInput{
		OwnerID: "owner-1",
		Name:    "Old Name",
		Subject: "subject",
		Body:    "body",
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), managerClaims("owner-1"), created.ID, campaign.UpdateInput{
		Name: pointer.To("Fresh Name"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Fresh Name", updated.Name)
	assert.Equal(t, "fresh-name", updated.Slug)
}

/*
TestService_Update_StatusLifecycle verifies the draft -> active -> archived
transitions and rejects skips.
*/
func TestService_Update_StatusLifecycle(t *testing.T) {
	testCases := []struct {
		name    string
		from    string
		to      string
		wantErr bool
	}{
		{"draft_to_active", campaign.StatusDraft, campaign.StatusActive, false},
		{"active_to_archived", campaign.StatusActive, campaign.StatusArchived, false},
		{"archived_to_active", campaign.StatusArchived, campaign.StatusActive, false},
		{"draft_to_archived", campaign.StatusDraft, campaign.StatusArchived, true},
		{"active_to_draft", campaign.StatusActive, campaign.StatusDraft, true},
		{"same_status", campaign.StatusActive, campaign.StatusActive, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, repo := newTestService()

			created, err := service.Create(context.Background(), campaign.CreateInput{
				OwnerID: "owner-1",
				Name:    "Lifecycle " + testCase.name,
				Subject: "subject",
				Body:    "body",
			})
			require.NoError(t, err)
			repo.byID[created.ID].Status = testCase.from

			_, err = service.Update(context.Background(), managerClaims("owner-1"), created.ID, campaign.UpdateInput{
				Status: pointer.To(testCase.to),
			})

			if testCase.wantErr {
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, "UNPROCESSABLE", appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestService_Update_ArchivedFrozen verifies content edits on an archived
campaign are rejected while status changes still work.
*/
func TestService_Update_ArchivedFrozen(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), campaign.CreateInput{
		OwnerID: "owner-1",
		Name:    "Frozen Campaign",
		Subject: "subject",
		Body:    "body",
	})
	require.NoError(t, err)
	repo.byID[created.ID].Status = campaign.StatusArchived

	_, err = service.Update(context.Background(), managerClaims("owner-1"), created.ID, campaign.UpdateInput{
		Subject: pointer.To("new subject"),
	})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "UNPROCESSABLE", appErr.Code)

	// Reactivation is still allowed
	reactivated, err := service.Update(context.Background(), managerClaims("owner-1"), created.ID, campaign.UpdateInput{
		Status: pointer.To(campaign.StatusActive),
	})
	require.NoError(t, err)
	assert.Equal(t, campaign.StatusActive, reactivated.Status)
}

/*
TestService_Delete verifies owner gating on removal.
*/
func TestService_Delete(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), campaign.CreateInput{
		OwnerID: "owner-1",
		Name:    "Doomed Campaign",
		Subject: "subject",
		Body:    "body",
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), managerClaims("someone-else"), created.ID)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	require.NoError(t, service.Delete(context.Background(), managerClaims("owner-1"), created.ID))
	assert.Empty(t, repo.byID)
}
