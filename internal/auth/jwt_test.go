package auth

import (
	"testing"
	"time"

	"sahel-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-for-signing-tokens-only!!"

func parseToken(t *testing.T, tokenString string) *JWTCustomClaims {
	t.Helper()
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !token.Valid {
		t.Fatal("token not valid")
	}
	return claims
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	user := &models.User{
		ID:    7,
		Name:  "سارة",
		Email: "sara@example.com",
		Role:  models.RoleAdmin,
		Title: "محاسبة",
	}

	tokenString, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims := parseToken(t, tokenString)
	if claims.UserID != user.ID {
		t.Errorf("user_id = %d, want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("email = %s, want %s", claims.Email, user.Email)
	}
	if claims.Name != user.Name {
		t.Errorf("name = %s, want %s", claims.Name, user.Name)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("role = %s, want admin", claims.Role)
	}
	if claims.Title != user.Title {
		t.Errorf("title = %s, want %s", claims.Title, user.Title)
	}
}

func TestGenerateTokenExpiry(t *testing.T) {
	tokenString, err := GenerateToken(testSecret, &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims := parseToken(t, tokenString)
	if claims.ExpiresAt == nil {
		t.Fatal("token has no expiry")
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 23*time.Hour || ttl > 25*time.Hour {
		t.Errorf("ttl = %v, want about 24h", ttl)
	}
}

func TestGenerateTokenWrongSecretRejected(t *testing.T) {
	tokenString, err := GenerateToken(testSecret, &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims := &JWTCustomClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("a-different-secret-entirely-here!!!"), nil
	})
	if err == nil {
		t.Error("token signed with another secret was accepted")
	}
}
