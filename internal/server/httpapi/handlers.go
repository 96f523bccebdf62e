package httpapi

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

// tokenRequest is the JSON form of the login body; form posts use the same
// field names.
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateAccountBody struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Email   *string `json:"email"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %s", common.ErrValidation, err.Error())
	}
	return nil
}

// userID reads the mandatory user_id query parameter.
func userID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("user_id")
	if id == "" {
		return "", fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	return id, nil
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, api.PingResponse{Status: "OK"})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req tokenRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: malformed form: %s", common.ErrValidation, err.Error()))
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	if req.Username == "" || req.Password == "" {
		s.writeError(w, r, fmt.Errorf("%w: username and password are required", common.ErrValidation))
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	})
}

func (s *HTTPServer) createAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req api.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.Create(r.Context(), services.CreateAccountInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.AccountFromModel(account))
}

func (s *HTTPServer) getAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.Get(r.Context(), currentAccount(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.AccountFromModel(account))
}

func (s *HTTPServer) updateAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body updateAccountBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.Update(r.Context(), currentAccount(r.Context()), id, services.UpdateAccountInput{
		Name:    body.Name,
		Surname: body.Surname,
		Email:   body.Email,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.UpdateAccountResponse{UpdatedUserID: updated})
}

func (s *HTTPServer) deleteAccount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	deleted, err := s.accounts.Delete(r.Context(), currentAccount(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.DeleteAccountResponse{DeletedUserID: deleted})
}

func (s *HTTPServer) grantAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.GrantAdmin(r.Context(), currentAccount(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.AdminPrivilegeResponse{UpdatedUserID: updated})
}

func (s *HTTPServer) revokeAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.accounts.RevokeAdmin(r.Context(), currentAccount(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.AdminPrivilegeResponse{UpdatedUserID: updated})
}

func (s *HTTPServer) avatarUploadURL(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.avatars.UploadURL(r.Context(), currentAccount(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.AvatarURLResponse{Key: u.Key, URL: u.URL, ExpiresAt: u.ExpiresAt})
}

func (s *HTTPServer) avatarDownloadURL(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.avatars.DownloadURL(r.Context(), currentAccount(r.Context()), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.AvatarURLResponse{Key: u.Key, URL: u.URL, ExpiresAt: u.ExpiresAt})
}
