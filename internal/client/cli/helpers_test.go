package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/client/client"
)

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

// fakeClient records calls and returns preset results.
type fakeClient struct {
	loggedIn bool
	pingErr  error
	err      error

	registered []string
	password   string
	loginEmail string
	update     *api.UpdateAccountRequest
	deleted    string
	granted    string
	revoked    string
	closed     bool
}

func (f *fakeClient) Close() error               { f.closed = true; return nil }
func (f *fakeClient) Ping(context.Context) error { return f.pingErr }
func (f *fakeClient) Logout()                    { f.loggedIn = false }
func (f *fakeClient) LoggedIn() bool             { return f.loggedIn }

func (f *fakeClient) Register(_ context.Context, name, surname, email string, password []byte) (*api.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = []string{name, surname, email}
	f.password = string(password)
	return &api.Account{UserID: "u-new", Name: name, Surname: surname, Email: email}, nil
}

func (f *fakeClient) Login(_ context.Context, email string, password []byte) error {
	if f.err != nil {
		return f.err
	}
	f.loginEmail = email
	f.password = string(password)
	f.loggedIn = true
	return nil
}

func (f *fakeClient) GetAccount(_ context.Context, id string) (*api.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id == f.deleted {
		return nil, client.ErrNotFound
	}
	return &api.Account{UserID: id, Name: "Anna", Surname: "Berzina", Email: "anna@example.com", Roles: []string{"ROLE_PORTAL_USER"}}, nil
}

func (f *fakeClient) UpdateAccount(_ context.Context, req *api.UpdateAccountRequest) (string, error) {
	f.update = req
	return req.UserID, f.err
}

func (f *fakeClient) DeleteAccount(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.deleted = id
	return id, nil
}

func (f *fakeClient) GrantAdmin(_ context.Context, id string) (string, error) {
	f.granted = id
	return id, f.err
}

func (f *fakeClient) RevokeAdmin(_ context.Context, id string) (string, error) {
	f.revoked = id
	return id, f.err
}

func (f *fakeClient) AvatarUploadURL(_ context.Context, id string) (*api.AvatarURLResponse, error) {
	return &api.AvatarURLResponse{Key: "avatars/" + id, URL: "http://s3/put/" + id}, f.err
}

func (f *fakeClient) AvatarDownloadURL(_ context.Context, id string) (*api.AvatarURLResponse, error) {
	return &api.AvatarURLResponse{Key: "avatars/" + id, URL: "http://s3/get/" + id}, f.err
}

func newTestApp(c client.Client, in *bufio.Reader) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{client: c, reader: in, out: out}, out
}
