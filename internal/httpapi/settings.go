package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CandlelightHQ/candlelight_svc/internal/identity"
	"github.com/CandlelightHQ/candlelight_svc/internal/model"
	"github.com/CandlelightHQ/candlelight_svc/internal/store"
)

const (
	logEventPersistProfile  = "persist_profile"
	logEventPersistBrandKit = "persist_brand_kit"

	notifyTitleProfileSaved    = "Profile Saved"
	notifyMessageProfileSaved  = "Your profile has been updated successfully"
	notifyTitleBrandKitSaved   = "Brand Kit Saved"
	notifyMessageBrandKitSaved = "Your brand settings have been updated successfully"
)

type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
}

type updateBrandKitRequest struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Font           string `json:"font"`
}

// Profile returns the authenticated account's editable profile.
func (handlers *Handlers) Profile(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyAccount: account})
}

// UpdateProfile applies the profile patch through the identity provider.
func (handlers *Handlers) UpdateProfile(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request updateProfileRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	updatedAccount, updateErr := handlers.identityService.UpdateProfile(ginContext.Request.Context(), account.ID, identity.ProfilePatch{
		DisplayName: request.DisplayName,
		AvatarURL:   request.AvatarURL,
	})
	if updateErr != nil {
		handlers.logger.Warn(logEventPersistProfile, zap.Error(updateErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	handlers.notifyCenter.Success(account.ID, notifyTitleProfileSaved, notifyMessageProfileSaved)
	ginContext.JSON(http.StatusOK, gin.H{jsonKeyAccount: updatedAccount})
}

// BrandKit returns the owner's brand settings, falling back to the stock
// palette.
func (handlers *Handlers) BrandKit(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	brandKit := model.DefaultBrandKit()
	if _, loadErr := store.Load(ginContext.Request.Context(), handlers.persistedStore, account.ID, store.KeyBrandKit, &brandKit); loadErr != nil {
		handlers.logger.Warn(logEventPersistBrandKit, zap.Error(loadErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	ginContext.JSON(http.StatusOK, brandKit)
}

// UpdateBrandKit validates and persists the owner's brand settings.
func (handlers *Handlers) UpdateBrandKit(ginContext *gin.Context) {
	account, _ := AccountFromContext(ginContext)
	var request updateBrandKitRequest
	if bindErr := ginContext.ShouldBindJSON(&request); bindErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	brandKit, constructErr := model.NewBrandKit(request.PrimaryColor, request.SecondaryColor, request.Font)
	if errors.Is(constructErr, model.ErrInvalidBrandColor) {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if constructErr != nil {
		ginContext.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingFields})
		return
	}
	if saveErr := handlers.persistedStore.Set(ginContext.Request.Context(), account.ID, store.KeyBrandKit, brandKit); saveErr != nil {
		handlers.logger.Warn(logEventPersistBrandKit, zap.Error(saveErr))
		ginContext.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}
	handlers.notifyCenter.Success(account.ID, notifyTitleBrandKitSaved, notifyMessageBrandKitSaved)
	ginContext.JSON(http.StatusOK, brandKit)
}

// Analytics returns the canned traffic snapshot shown on the dashboard.
func (handlers *Handlers) Analytics(ginContext *gin.Context) {
	ginContext.JSON(http.StatusOK, model.DemoAnalytics())
}
