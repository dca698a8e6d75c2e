package utils

import (
	"fmt"
	"log"
	"mepass/src/config"
	"mepass/src/types"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
)

const tokenValidity = 24 * time.Hour

func GenerateJWT(email string, id uint, role types.Role) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Username: email,
		Role:     string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(id)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		log.Printf("Error signing token for user [%d]: %s\n", id, err.Error())
		return "", err
	}
	return signed, nil
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// NewEventSlug derives a URL slug from the event name with a short
// random suffix so repeated names stay unique.
func NewEventSlug(name string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s", slug.Make(name), suffix)
}

func ParseEventDate(value string) (time.Time, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, value)
	if err != nil {
		log.Printf("Error parsing date: %s\n", err.Error())
		return time.Time{}, err
	}
	dateTime = time.Date(
		dateTime.Year(),
		dateTime.Month(),
		dateTime.Day(),
		dateTime.Hour(),
		dateTime.Minute(),
		0,
		0,
		dateTime.Location(),
	)
	return dateTime, nil
}
