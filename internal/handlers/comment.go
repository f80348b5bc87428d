package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fracas-dev/fracas/db"
	"github.com/fracas-dev/fracas/internal/models"
	"github.com/fracas-dev/fracas/internal/types"
	"github.com/fracas-dev/fracas/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateCommentRequest struct {
	RecordID uint   `json:"record_id" binding:"required"`
	ParentID *uint  `json:"parent_comment_id"`
	Text     string `json:"comment_text" binding:"required"`
}

type UpdateCommentRequest struct {
	Text string `json:"comment_text" binding:"required"`
}

var commentQuery = querySpec{
	filters: map[string]string{
		"record_id": "comments.record_id",
		"commenter": "comments.commenter_id",
	},
	search:       []string{"comments.text"},
	ordering:     map[string]string{"creation_time": "comments.creation_time"},
	defaultOrder: "comments.creation_time",
}

func ListComments(ctx *gin.Context) {
	var comments []models.Comment

	if err := applyQuery(ctx, commentQuery, db.DB.Model(&models.Comment{})).Find(&comments).Error; err != nil {
		log.Printf("Failed to list comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}

	response := make([]types.CommentResponse, 0, len(comments))

	for i := range comments {
		response = append(response, types.NewCommentResponse(&comments[i]))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetComment(ctx *gin.Context) {
	comment, ok := findComment(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func CreateComment(ctx *gin.Context) {
	var body CreateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var record models.Record

	if err := db.DB.First(&record, body.RecordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Record not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve record"})
		}
		return
	}

	if body.ParentID != nil {
		var parent models.Comment

		if err := db.DB.First(&parent, *body.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment not found"})
			} else {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parent comment"})
			}
			return
		}

		if parent.RecordID != body.RecordID {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment belongs to a different record"})
			return
		}
	}

	comment := models.Comment{
		RecordID:     body.RecordID,
		ParentID:     body.ParentID,
		CommenterID:  &userID,
		CreationTime: time.Now(),
		Text:         body.Text,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to create comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, types.NewCommentResponse(&comment))
}

func UpdateComment(ctx *gin.Context) {
	comment, ok := findComment(ctx)

	if !ok {
		return
	}

	var body UpdateCommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := db.DB.Model(comment).Update("text", body.Text).Error; err != nil {
		log.Printf("Failed to update comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	comment.Text = body.Text

	ctx.JSON(http.StatusOK, types.NewCommentResponse(comment))
}

func DeleteComment(ctx *gin.Context) {
	comment, ok := findComment(ctx)

	if !ok {
		return
	}

	// Replies cascade via the self-referencing constraint.
	if err := db.DB.Delete(comment).Error; err != nil {
		log.Printf("Failed to delete comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func CommentRecord(ctx *gin.Context) {
	comment, ok := findComment(ctx)

	if !ok {
		return
	}

	var record models.Record

	if err := db.DB.Preload("Subsystem").First(&record, comment.RecordID).Error; err != nil {
		log.Printf("Failed to fetch comment record: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve record"})
		return
	}

	ctx.JSON(http.StatusOK, types.NewRecordResponse(&record))
}

func findComment(ctx *gin.Context) (*models.Comment, bool) {
	var comment models.Comment

	if err := db.DB.Where("id = ?", ctx.Param("comment_id")).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		}
		return nil, false
	}

	return &comment, true
}
