package signin

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/auth-gateway/internal/models"
)

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// SessionIssuer выставляет сессионную cookie с токеном.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, token string)
}
