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

func TestCommentThreading(t *testing.T) {
	r := setupRouter(t)
	token, userID := registerAndLogin(t, r, "commenter", "commenter@example.com", "")

	recordID := createRecord(t, r, token, gin.H{"failure_title": "Thread test"})
	otherRecordID := createRecord(t, r, token, gin.H{"failure_title": "Other record"})

	parentID := createComment(t, r, token, recordID, nil, "root")
	replyID := createComment(t, r, token, recordID, &parentID, "reply")

	w := doJSON(t, r, http.MethodGet, "/api/comments/2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, replyID, body["comment_id"])
	assert.EqualValues(t, parentID, body["parent_comment_id"])
	assert.EqualValues(t, userID, body["commenter"])

	// A reply must stay within its parent's record.
	w = doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"record_id":         otherRecordID,
		"parent_comment_id": parentID,
		"comment_text":      "cross-record reply",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Commenting on a missing record is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/comments", token, gin.H{
		"record_id":    uint(999),
		"comment_text": "orphan",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteParentCommentCascadesReplies(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "commenter", "commenter@example.com", "")

	recordID := createRecord(t, r, token, gin.H{"failure_title": "Cascade test"})

	parentID := createComment(t, r, token, recordID, nil, "root")
	replyID := createComment(t, r, token, recordID, &parentID, "reply")
	createComment(t, r, token, recordID, &replyID, "deep reply")
	keptID := createComment(t, r, token, recordID, nil, "unrelated root")

	w := doJSON(t, r, http.MethodDelete, "/api/comments/1", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var remaining []models.Comment
	require.NoError(t, db.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1, "deleting a parent removes its whole reply subtree")
	assert.EqualValues(t, keptID, remaining[0].ID)
}

func TestCommentRecordAccessor(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "commenter", "commenter@example.com", "")

	recordID := createRecord(t, r, token, gin.H{"failure_title": "Accessor test"})
	createComment(t, r, token, recordID, nil, "note")

	w := doJSON(t, r, http.MethodGet, "/api/comments/1/record", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, recordID, decodeBody(t, w)["record_id"])

	w = doJSON(t, r, http.MethodGet, "/api/comments/999/record", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentUpdate(t *testing.T) {
	r := setupRouter(t)
	token, _ := registerAndLogin(t, r, "commenter", "commenter@example.com", "")

	recordID := createRecord(t, r, token, gin.H{"failure_title": "Update test"})
	createComment(t, r, token, recordID, nil, "tpyo")

	w := doJSON(t, r, http.MethodPatch, "/api/comments/1", token, gin.H{"comment_text": "typo fixed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "typo fixed", decodeBody(t, w)["comment_text"])

	w = doJSON(t, r, http.MethodPatch, "/api/comments/1", "", gin.H{"comment_text": "anonymous edit"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
