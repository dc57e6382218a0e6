package middlewares

import (
	"context"
	"crm/database"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type contextKey string

const UserContextKey = contextKey("auth_user")

// AuthUser is the caller as described by a verified token.
type AuthUser struct {
	ID        bson.ObjectID
	Email     string
	Role      string
	ClientID  bson.ObjectID
	TokenID   string
	ExpiresAt time.Time
}

func (u AuthUser) IsStaff() bool {
	return slices.Contains(schemas.StaffRoles, u.Role)
}

func (u AuthUser) HasRole(roles ...string) bool {
	return slices.Contains(roles, u.Role)
}

// CurrentUser returns the user stored by Auth. Handlers behind Auth can
// rely on ok being true.
func CurrentUser(r *http.Request) (AuthUser, bool) {
	user, ok := r.Context().Value(UserContextKey).(AuthUser)
	return user, ok
}

func WithUser(ctx context.Context, user AuthUser) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// Authenticate turns a raw bearer token into an AuthUser, checking the
// revocation list. On failure it returns the status and message to answer
// with. A revocation check that cannot run refuses the token.
func Authenticate(ctx context.Context, raw string) (AuthUser, int, string) {
	claims, err := utils.ParseToken(raw)
	if err != nil {
		return AuthUser{}, http.StatusUnauthorized, "Jeton invalide ou expiré"
	}

	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return AuthUser{}, http.StatusUnauthorized, "Jeton invalide ou expiré"
	}

	revoked, err := database.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		zap.L().Error("revocation check failed", zap.String("user", claims.Subject), zap.Error(err))
		return AuthUser{}, http.StatusServiceUnavailable, "Vérification du jeton momentanément impossible"
	}
	if revoked {
		return AuthUser{}, http.StatusUnauthorized, "Jeton révoqué"
	}

	clientID, _ := utils.OptionalObjectID(claims.ClientID)

	user := AuthUser{
		ID:       id,
		Email:    claims.Email,
		Role:     claims.Role,
		ClientID: clientID,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}

	return user, 0, ""
}

func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			utils.SendResponse(w, http.StatusUnauthorized, "Jeton non fourni", nil, 0)
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			utils.SendResponse(w, http.StatusUnauthorized, "Format d'autorisation invalide", nil, 0)
			return
		}

		user, status, problem := Authenticate(r.Context(), raw)
		if status != 0 {
			utils.SendResponse(w, status, problem, nil, 0)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRoles lets the request through only for the listed roles. It
// must run behind Auth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r)
			if !ok {
				utils.SendResponse(w, http.StatusUnauthorized, "Authentification requise", nil, 0)
				return
			}
			if !user.HasRole(roles...) {
				utils.SendResponse(w, http.StatusForbidden, "Accès refusé", nil, 0)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
