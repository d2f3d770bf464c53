package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createExperience creates an experience via the API.
func (ts *apiTestServer) createExperience(t *testing.T, token, company, start string) ExperienceResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/experience", map[string]any{
		"company_name": company,
		"job_title":    "Software Engineer",
		"start_date":   start,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "create experience failed: %s", resp.Body.String())

	return decodeBody[ExperienceResponse](t, resp.Body.Bytes())
}

// createBullet creates a bullet via the API.
func (ts *apiTestServer) createBullet(t *testing.T, token, text string) BulletResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/bullets", map[string]any{"text": text},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "create bullet failed: %s", resp.Body.String())

	return decodeBody[BulletResponse](t, resp.Body.Bytes())
}

// associate links a bullet to an experience and returns the raw status code.
func (ts *apiTestServer) associate(t *testing.T, token string, expID, bulletID int64) int {
	t.Helper()

	resp := ts.api.Post("/api/v1/experience/"+formatID(expID)+"/bullets",
		map[string]any{"bullet_id": bulletID},
		"Authorization: Bearer "+token)
	return resp.Code
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestCreateExperience_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "exp@test.com")

	end := "2023-06-30"
	resp := ts.api.Post("/api/v1/experience", map[string]any{
		"company_name": "Acme Corp",
		"job_title":    "Backend Engineer",
		"start_date":   "2021-01-15",
		"end_date":     end,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	exp := decodeBody[ExperienceResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Acme Corp", exp.CompanyName)
	assert.Equal(t, "Backend Engineer", exp.JobTitle)
	assert.Equal(t, "2021-01-15", exp.StartDate)
	require.NotNil(t, exp.EndDate)
	assert.Equal(t, end, *exp.EndDate)
	assert.False(t, exp.IsCurrent)
	assert.Nil(t, exp.Bullets)
}

func TestCreateExperience_CurrentDropsEndDate(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "current@test.com")

	resp := ts.api.Post("/api/v1/experience", map[string]any{
		"company_name": "Acme Corp",
		"job_title":    "Engineer",
		"start_date":   "2024-03-01",
		"end_date":     "2024-12-31",
		"is_current":   true,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	exp := decodeBody[ExperienceResponse](t, resp.Body.Bytes())
	assert.True(t, exp.IsCurrent)
	assert.Nil(t, exp.EndDate)
}

func TestCreateExperience_EndBeforeStart(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "dates@test.com")

	resp := ts.api.Post("/api/v1/experience", map[string]any{
		"company_name": "Acme Corp",
		"job_title":    "Engineer",
		"start_date":   "2023-06-01",
		"end_date":     "2022-01-01",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateExperience_MissingCompanyName(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "missing@test.com")

	resp := ts.api.Post("/api/v1/experience", map[string]any{
		"job_title":  "Engineer",
		"start_date": "2023-06-01",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetExperience_NotFoundAndForeign(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	owner := ts.registerTestUser(t, "owner@test.com")
	other := ts.registerTestUser(t, "other@test.com")

	exp := ts.createExperience(t, owner, "Acme Corp", "2022-01-01")

	resp := ts.api.Get("/api/v1/experience/999999", "Authorization: Bearer "+owner)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/experience/"+formatID(exp.ID), "Authorization: Bearer "+other)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Get("/api/v1/experience/"+formatID(exp.ID), "Authorization: Bearer "+owner)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestListExperience_Sorted(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "sort@test.com")

	ts.createExperience(t, token, "Zenith", "2020-01-01")
	ts.createExperience(t, token, "Apex", "2023-01-01")

	resp := ts.api.Get("/api/v1/experience?order_by=company_name&order_dir=ASC",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ListExperienceResponse](t, resp.Body.Bytes())
	require.Len(t, body.Experience, 2)
	assert.Equal(t, "Apex", body.Experience[0].CompanyName)
	assert.Equal(t, "Zenith", body.Experience[1].CompanyName)
}

func TestListExperience_RejectsUnknownSortColumn(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "badsort@test.com")

	resp := ts.api.Get("/api/v1/experience?order_by=password_hash",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/v1/experience?order_dir=sideways",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListExperience_IncludeBullets(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "aggregate@test.com")

	older := ts.createExperience(t, token, "Older Corp", "2019-05-01")
	newer := ts.createExperience(t, token, "Newer Corp", "2024-02-01")

	bullet := ts.createBullet(t, token, "Shipped the billing pipeline")
	require.Equal(t, http.StatusOK, ts.associate(t, token, newer.ID, bullet.ID))

	resp := ts.api.Get("/api/v1/experience?include_bullets=true",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ListExperienceResponse](t, resp.Body.Bytes())
	require.Len(t, body.Experience, 2)

	// Newest start date first.
	assert.Equal(t, newer.ID, body.Experience[0].ID)
	require.NotNil(t, body.Experience[0].Bullets)
	require.Len(t, *body.Experience[0].Bullets, 1)
	assert.Equal(t, bullet.ID, (*body.Experience[0].Bullets)[0].ID)
	assert.Equal(t, "Shipped the billing pipeline", (*body.Experience[0].Bullets)[0].Text)

	// Bulletless experiences still carry an empty array, not null.
	assert.Equal(t, older.ID, body.Experience[1].ID)
	require.NotNil(t, body.Experience[1].Bullets)
	assert.Empty(t, *body.Experience[1].Bullets)
}

func TestGetExperience_IncludeBullets(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "getwith@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	b1 := ts.createBullet(t, token, "First achievement")
	b2 := ts.createBullet(t, token, "Second achievement")

	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, b1.ID))
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, b2.ID))

	resp := ts.api.Get("/api/v1/experience/"+formatID(exp.ID)+"?include_bullets=true",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ExperienceResponse](t, resp.Body.Bytes())
	require.NotNil(t, body.Bullets)
	require.Len(t, *body.Bullets, 2)
	assert.Equal(t, b1.ID, (*body.Bullets)[0].ID)
	assert.Equal(t, b2.ID, (*body.Bullets)[1].ID)
	assert.False(t, (*body.Bullets)[0].AssociatedAt.IsZero())
}

func TestUpdateExperience(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "update@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")

	resp := ts.api.Put("/api/v1/experience/"+formatID(exp.ID), map[string]any{
		"company_name": "Acme Corporation",
		"job_title":    "Staff Engineer",
		"start_date":   "2022-01-01",
		"is_current":   true,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ExperienceResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Acme Corporation", body.CompanyName)
	assert.Equal(t, "Staff Engineer", body.JobTitle)
	assert.True(t, body.IsCurrent)
	assert.Nil(t, body.EndDate)
}

func TestAssociateBullet_Conflict(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "conflict@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	bullet := ts.createBullet(t, token, "Did a thing")

	assert.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, bullet.ID))
	assert.Equal(t, http.StatusConflict, ts.associate(t, token, exp.ID, bullet.ID))
}

func TestAssociateBullet_MissingParents(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "missingparents@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	bullet := ts.createBullet(t, token, "Did a thing")

	assert.Equal(t, http.StatusNotFound, ts.associate(t, token, exp.ID, 999999))
	assert.Equal(t, http.StatusNotFound, ts.associate(t, token, 999999, bullet.ID))
}

func TestAssociateBullet_CrossOwnerForbidden(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	alice := ts.registerTestUser(t, "alice@test.com")
	bob := ts.registerTestUser(t, "bob@test.com")

	aliceExp := ts.createExperience(t, alice, "Alice Corp", "2022-01-01")
	bobBullet := ts.createBullet(t, bob, "Bob's achievement")

	// Alice's experience, Bob's bullet: rejected no matter who asks.
	assert.Equal(t, http.StatusForbidden, ts.associate(t, alice, aliceExp.ID, bobBullet.ID))
	assert.Equal(t, http.StatusForbidden, ts.associate(t, bob, aliceExp.ID, bobBullet.ID))
}

func TestDisassociateBullet(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "unlink@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	bullet := ts.createBullet(t, token, "Did a thing")
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, bullet.ID))

	path := "/api/v1/experience/" + formatID(exp.ID) + "/bullets/" + formatID(bullet.ID)

	resp := ts.api.Delete(path, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// The link is gone but the bullet survives.
	resp = ts.api.Delete(path, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/bullets/"+formatID(bullet.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestListExperienceBullets_AssociationOrder(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "order@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	first := ts.createBullet(t, token, "Created first")
	second := ts.createBullet(t, token, "Created second")

	// Associate in reverse creation order.
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, second.ID))
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, first.ID))

	resp := ts.api.Get("/api/v1/experience/"+formatID(exp.ID)+"/bullets",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ListExperienceBulletsResponse](t, resp.Body.Bytes())
	require.Len(t, body.Bullets, 2)
	assert.Equal(t, second.ID, body.Bullets[0].ID)
	assert.Equal(t, first.ID, body.Bullets[1].ID)
}

func TestDeleteExperience_ReportsAssociationsRemoved(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "delete@test.com")

	exp := ts.createExperience(t, token, "Acme Corp", "2022-01-01")
	b1 := ts.createBullet(t, token, "First")
	b2 := ts.createBullet(t, token, "Second")
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, b1.ID))
	require.Equal(t, http.StatusOK, ts.associate(t, token, exp.ID, b2.ID))

	resp := ts.api.Delete("/api/v1/experience/"+formatID(exp.ID),
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[DeleteExperienceResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, body.AssociationsRemoved)

	// Bullets survive the experience.
	resp = ts.api.Get("/api/v1/bullets/"+formatID(b1.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/experience/"+formatID(exp.ID), "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestExperienceStats(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token := ts.registerTestUser(t, "stats@test.com")

	// Empty account: all zeros.
	resp := ts.api.Get("/api/v1/experience/stats", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	stats := decodeBody[StatsResponse](t, resp.Body.Bytes())
	assert.Zero(t, stats.TotalExperiences)
	assert.Zero(t, stats.TotalBulletsUsed)
	assert.Zero(t, stats.TotalAssociations)
	assert.Zero(t, stats.AvgBulletsPerExperience)

	// Two experiences, one with three bullets, one with none. The average
	// counts only experiences that have at least one bullet.
	loaded := ts.createExperience(t, token, "Loaded Corp", "2021-01-01")
	ts.createExperience(t, token, "Empty Corp", "2023-01-01")

	for _, text := range []string{"One", "Two", "Three"} {
		b := ts.createBullet(t, token, text)
		require.Equal(t, http.StatusOK, ts.associate(t, token, loaded.ID, b.ID))
	}

	resp = ts.api.Get("/api/v1/experience/stats", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	stats = decodeBody[StatsResponse](t, resp.Body.Bytes())
	assert.Equal(t, int64(2), stats.TotalExperiences)
	assert.Equal(t, int64(3), stats.TotalBulletsUsed)
	assert.Equal(t, int64(3), stats.TotalAssociations)
	assert.InDelta(t, 3.0, stats.AvgBulletsPerExperience, 0.001)
}

func TestExperienceRoutes_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/api/v1/experience")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/experience/stats", "Authorization: Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
