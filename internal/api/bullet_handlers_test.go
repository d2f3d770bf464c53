package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBullets_SearchFilter(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "search@test.com")

	ts.createBullet(t, token, "Designed the REST API gateway")
	ts.createBullet(t, token, "Maintained the public api docs")
	ts.createBullet(t, token, "Led the on-call rotation")

	resp := ts.api.Get("/api/v1/bullets?search=API", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ListBulletsResponse](t, resp.Body.Bytes())
	assert.Len(t, body.Bullets, 2)

	resp = ts.api.Get("/api/v1/bullets", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	body = decodeBody[ListBulletsResponse](t, resp.Body.Bytes())
	assert.Len(t, body.Bullets, 3)
}

func TestUpdateBullet_VisibleThroughLinks(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "propagate@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	bullet := ts.createBullet(t, token, "Old wording")
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, bullet.ID))

	resp := ts.api.Put("/api/v1/bullets/"+formatID(bullet.ID),
		map[string]any{"text": "New wording"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/experience/"+formatID(exp.ID)+"/bullets",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[ListExperienceBulletsResponse](t, resp.Body.Bytes())
	require.Len(t, body.Bullets, 1)
	assert.Equal(t, "New wording", body.Bullets[0].Text)
}

func TestDeleteBullet_ReportsAssociationsRemoved(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "deletebullet@test.com")

	expA := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	expB := ts.createExperience(t, token, "Beta Inc", "2023-01-01")
	bullet := ts.createBullet(t, token, "Shared across roles")

	require.Equal(t, http.StatusOK, ts.associate(t, token, expA.ID, bullet.ID))
	require.Equal(t, http.StatusOK, ts.associate(t, token, expB.ID, bullet.ID))

	resp := ts.api.Delete("/api/v1/bullets/"+formatID(bullet.ID),
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[DeleteBulletResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, body.AssociationsRemoved)

	// Both experiences survive, now bulletless.
	for _, id := range []int64{expA.ID, expB.ID} {
		resp = ts.api.Get("/api/v1/experience/"+formatID(id)+"/bullets",
			"Authorization: Bearer "+token)
		require.Equal(t, http.StatusOK, resp.Code)
		body := decodeBody[ListExperienceBulletsResponse](t, resp.Body.Bytes())
		assert.Empty(t, body.Bullets)
	}
}
