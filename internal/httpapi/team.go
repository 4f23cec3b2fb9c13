package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/collection"
	"github.com/CandlelightHQ/candlelight_svc/internal/model"
)

const (
	logEventListTeam          = "list_team"
	logEventPersistTeamMember = "persist_team_member"
)

type inviteTeamMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role"`
}

// ListTeam returns the owner's roster, seeding the demo roster on first
// read.
func (handlers *Handlers) ListTeam(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	allMembers, listErr := handlers.team.List(ginContext.Request.Context(), account.ID, handlers.collectionFilter(ginContext))
	if listErr != nil {
		handlers.logger.Warn(logEventListTeam, zap.Error(listErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyItems: allMembers})
}

// InviteTeamMember appends a member derived from the invite email.
func (handlers *Handlers) InviteTeamMember(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request inviteTeamMemberRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	invitedMember, inviteErr := handlers.team.Invite(ginContext.Request.Context(), account.ID, model.TeamMemberInput{
		Email: request.Email,
		Role:  request.Role,
	})
	if errors.Is(inviteErr, model.ErrInvalidMemberEmail) || errors.Is(inviteErr, model.ErrInvalidRole) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if inviteErr != nil {
		handlers.logger.Warn(logEventPersistTeamMember, zap.Error(inviteErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusCreated, invitedMember)
}

// UpdateTeamMemberRole changes one member's role.
func (handlers *Handlers) UpdateTeamMemberRole(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request updateMemberRoleRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	updatedMember, found, updateErr := handlers.team.UpdateRole(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID), request.Role)
	if errors.Is(updateErr, model.ErrInvalidRole) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if errors.Is(updateErr, collection.ErrLastTeamManager) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueLastTeamManager})
		return
	}
	if updateErr != nil {
		handlers.logger.Warn(logEventPersistTeamMember, zap.Error(updateErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	if !found {
		ginContext.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownItem})
		return
	}
	ginContext.JSON(http.StatusOK, updatedMember)
}

// RemoveTeamMember drops one member from the roster.
func (handlers *Handlers) RemoveTeamMember(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	removeErr := handlers.team.Remove(ginContext.Request.Context(), account.ID, ginContext.Param(pathParamID))
	if errors.Is(removeErr, collection.ErrLastTeamManager) {
		ginContext.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueLastTeamManager})
		return
	}
	if removeErr != nil {
		handlers.logger.Warn(logEventPersistTeamMember, zap.Error(removeErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyStatus: statusValueOK})
}
