package handlers_test

import (
	"net/http"
	"testing"

	"github.com/fracas-dev/fracas/db"
	"github.com/fracas-dev/fracas/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamCRUD(t *testing.T) {
	r := setupRouter(t)
	token, userID := registerAndLogin(t, r, "lead", "lead@example.com", "")

	w := doJSON(t, r, http.MethodPost, "/api/teams", token, gin.H{
		"team_name": "Powertrain",
		"team_lead": userID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Powertrain", body["team_name"])
	assert.EqualValues(t, userID, body["team_lead"])

	// Duplicate name is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/teams", token, gin.H{"team_name": "Powertrain"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Creation requires authentication.
	w = doJSON(t, r, http.MethodPost, "/api/teams", "", gin.H{"team_name": "Aero"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Lookup is by name.
	w = doJSON(t, r, http.MethodGet, "/api/teams/Powertrain", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/teams/Chassis", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/teams/Powertrain", token, gin.H{"team_name": "Drivetrain"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Drivetrain", decodeBody(t, w)["team_name"])

	w = doJSON(t, r, http.MethodDelete, "/api/teams/Drivetrain", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/teams/Drivetrain", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamMembersAndLead(t *testing.T) {
	r := setupRouter(t)
	token, leadID := registerAndLogin(t, r, "lead", "lead@example.com", "")
	createTeam(t, r, token, "Powertrain")

	// Only the second user joins the team at registration.
	registerAndLogin(t, r, "member", "member@example.com", "powertrain")

	w := doJSON(t, r, http.MethodGet, "/api/teams/Powertrain/members", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	members := decodeList(t, w)
	require.Len(t, members, 1)
	assert.Equal(t, "member", members[0]["username"])

	// No lead set yet: empty list.
	w = doJSON(t, r, http.MethodGet, "/api/teams/Powertrain/lead", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))

	w = doJSON(t, r, http.MethodPatch, "/api/teams/Powertrain", token, gin.H{"team_lead": leadID})
	require.Equal(t, http.StatusOK, w.Code)

	// The lead does not belong to the team but is still its lead.
	w = doJSON(t, r, http.MethodGet, "/api/teams/Powertrain/lead", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	leads := decodeList(t, w)
	require.Len(t, leads, 1, "lead is returned as a single-element list")
	assert.EqualValues(t, leadID, leads[0]["user_id"])
}

func TestTeamSubsystemsSortedByName(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "lead", "lead@example.com", "")
	createTeam(t, r, token, "Powertrain")

	createSubsystem(t, r, token, "Gearbox", "Powertrain")
	createSubsystem(t, r, token, "Battery", "Powertrain")
	createSubsystem(t, r, token, "ECU", "Powertrain")

	w := doJSON(t, r, http.MethodGet, "/api/teams/Powertrain/subsystems", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	subsystems := decodeList(t, w)
	require.Len(t, subsystems, 3)
	assert.Equal(t, "Battery", subsystems[0]["subsystem_name"])
	assert.Equal(t, "ECU", subsystems[1]["subsystem_name"])
	assert.Equal(t, "Gearbox", subsystems[2]["subsystem_name"])
}

func TestDeleteTeamCascades(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "lead", "lead@example.com", "")
	createTeam(t, r, token, "Powertrain")
	createSubsystem(t, r, token, "ECU", "Powertrain")

	_, memberID := registerAndLogin(t, r, "member", "member@example.com", "Powertrain")

	w := doJSON(t, r, http.MethodDelete, "/api/teams/Powertrain", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// Subsystems owned by the team are gone.
	w = doJSON(t, r, http.MethodGet, "/api/subsystems/ECU", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Members survive with their team reference nulled.
	var member models.User
	require.NoError(t, db.DB.First(&member, memberID).Error)
	assert.Nil(t, member.TeamID, "member's team reference should be set to null, not deleted")
}

func TestSubsystemParent(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "lead", "lead@example.com", "")
	createTeam(t, r, token, "Powertrain")
	createSubsystem(t, r, token, "ECU", "Powertrain")

	w := doJSON(t, r, http.MethodGet, "/api/subsystems/ECU/parent", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Powertrain", decodeBody(t, w)["team_name"])

	// A subsystem without a team has no parent to return.
	createSubsystem(t, r, token, "Orphan", "")
	w = doJSON(t, r, http.MethodGet, "/api/subsystems/Orphan/parent", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubsystemCRUD(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "lead", "lead@example.com", "")
	createTeam(t, r, token, "Powertrain")

	w := doJSON(t, r, http.MethodPost, "/api/subsystems", token, gin.H{
		"subsystem_name": "ECU",
		"parent_team":    "Powertrain",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Powertrain", *stringField(decodeBody(t, w), "parent_team"))

	// Unknown parent team is an error on direct create, unlike registration.
	w = doJSON(t, r, http.MethodPost, "/api/subsystems", token, gin.H{
		"subsystem_name": "Wing",
		"parent_team":    "No Such Team",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/subsystems", token, gin.H{"subsystem_name": "ECU"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate subsystem name")

	w = doJSON(t, r, http.MethodPatch, "/api/subsystems/ECU", token, gin.H{"subsystem_name": "ECU2"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/subsystems/ECU2", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func stringField(body map[string]interface{}, key string) *string {
	if v, ok := body[key].(string); ok {
		return &v
	}
	return nil
}
