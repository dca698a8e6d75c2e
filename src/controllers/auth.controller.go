package controllers

import (
	"errors"
	"log"
	"mepass/src/models"
	"mepass/src/types"
	"mepass/src/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBadCredentials = errors.New("invalid email or password")

func AuthRegister(ctx *gin.Context, db *gorm.DB) (token *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	user := models.User{
		Name:         body.Name,
		Email:        body.Email,
		PasswordHash: hashed,
		Phone:        body.Phone,
		Role:         string(types.ROLE_USER),
		UID:          uuid.NewString(),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, http.StatusConflict, errors.New("email already registered")
		}
		log.Printf("Error registering user: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(user.Email, user.ID, types.ROLE_USER)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context, db *gorm.DB) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	var muser models.User
	if err = db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&muser).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusUnauthorized, ErrBadCredentials
	}
	if !utils.CheckPassword(muser.PasswordHash, body.Password) {
		return nil, http.StatusUnauthorized, ErrBadCredentials
	}
	role, ok := types.ParseRole(muser.Role)
	if !ok {
		log.Printf("user [%d] carries unknown role %q\n", muser.ID, muser.Role)
		return nil, http.StatusForbidden, errors.New("account role is not recognized")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.User{}).
			Where("id", muser.ID).
			Update("last_active", time.Now()).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Error logging in user [%d]: %s\n", muser.ID, err.Error())
		return nil, http.StatusBadRequest, err
	}

	jwt, err := utils.GenerateJWT(muser.Email, muser.ID, role)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}
