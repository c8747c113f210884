package signup

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/auth-gateway/internal/models"
)

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, name, email, password, role string) (*models.User, string, error)
}

// SessionIssuer выставляет сессионную cookie с токеном.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, token string)
}
