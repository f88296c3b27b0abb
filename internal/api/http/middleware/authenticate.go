package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mkazak/authgate/internal/logger"
	"github.com/mkazak/authgate/internal/model"
)

// principalKey is the locals key the authenticated principal is stored
// under for downstream handlers.
const principalKey = "principal"

// Authenticate guards routes: it validates bearer access tokens, loads the
// principal and enforces required rights against the rights table.
type Authenticate struct {
	signer model.TokenSigner
	users  model.UserStore
	rights model.RightsTable
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(signer model.TokenSigner, users model.UserStore, rights model.RightsTable, logger *logger.Logger) *Authenticate {
	return &Authenticate{signer: signer, users: users, rights: rights, logger: logger}
}

// Require returns a handler that rejects requests without a valid access
// token. When requiredRights is non-empty the principal's role must grant
// every right, unless the acting principal is the owner of the addressed
// resource (the userId route parameter).
func (m *Authenticate) Require(requiredRights ...model.Right) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return model.ErrUnauthenticated
		}

		claims, err := m.signer.Parse(tokenString)
		if err != nil {
			m.logger.Debug("Authenticate: token rejected", "error", err.Error())
			return model.ErrUnauthenticated
		}
		// Only access tokens authorize requests. A refresh/reset/verify
		// token presented here is rejected regardless of validity.
		if claims.Kind != model.KindAccess {
			m.logger.Debug("Authenticate: non-access token presented", "kind", string(claims.Kind))
			return model.ErrUnauthenticated
		}

		user, err := m.users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			m.logger.Debug("Authenticate: principal not found", "user_id", claims.UserID)
			return model.ErrUnauthenticated
		}

		c.Locals(principalKey, user)

		if len(requiredRights) > 0 {
			if !m.rights.HasAll(user.Role, requiredRights) && c.Params("userId") != user.ID.String() {
				return model.ErrForbidden
			}
		}

		return c.Next()
	}
}

// Principal returns the authenticated user stored by Require.
func Principal(c *fiber.Ctx) (model.User, bool) {
	user, ok := c.Locals(principalKey).(model.User)
	return user, ok
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
