package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/julienschmidt/httprouter"
)

type contextKey string

const accountKey contextKey = "account"

// authenticated resolves the bearer token to an active account before
// calling next.
func (s *HTTPServer) authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, ok := common.ParseBearer(r.Header.Get("Authorization"))
		if !ok {
			writeUnauthorized(w, "not authenticated")
			return
		}

		account, err := s.auth.CurrentIdentity(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorInternal) {
				s.writeError(w, r, err)
				return
			}
			writeUnauthorized(w, "could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), accountKey, account)
		next(w, r.WithContext(ctx), ps)
	}
}

func currentAccount(ctx context.Context) *models.Account {
	account, _ := ctx.Value(accountKey).(*models.Account)
	return account
}
