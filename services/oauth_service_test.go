package services_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"answerly/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOAuthService(t *testing.T, handler http.HandlerFunc) *services.OAuthService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := services.NewOAuthService(services.OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/callback",
		APIURL:       srv.URL,
	}, srv.Client())
	return svc
}

func TestOAuthService_AuthorizationURL(t *testing.T) {
	t.Parallel()
	svc := newOAuthService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	raw, err := svc.AuthorizationURL()
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/oauth2/authorize", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify guilds", q.Get("scope"))
	require.NotEmpty(t, q.Get("state"))

	assert.True(t, svc.ConsumeState(q.Get("state")))
	assert.False(t, svc.ConsumeState(q.Get("state")), "state must be single use")
	assert.False(t, svc.ConsumeState("never-issued"))
	assert.False(t, svc.ConsumeState(""))
}

func TestOAuthService_Exchange(t *testing.T) {
	t.Parallel()
	var form url.Values
	svc := newOAuthService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"abc","token_type":"Bearer","expires_in":604800,"refresh_token":"def","scope":"identify guilds"}`)
	})

	token, err := svc.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
	assert.Equal(t, int64(604800), token.ExpiresIn)

	assert.Equal(t, "client-id", form.Get("client_id"))
	assert.Equal(t, "client-secret", form.Get("client_secret"))
	assert.Equal(t, "authorization_code", form.Get("grant_type"))
	assert.Equal(t, "the-code", form.Get("code"))
	assert.Equal(t, "http://localhost:8080/callback", form.Get("redirect_uri"))
	assert.Equal(t, "identify guilds", form.Get("scope"))
}

func TestOAuthService_ExchangeFailureCarriesBody(t *testing.T) {
	t.Parallel()
	svc := newOAuthService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant"}`)
	})

	_, err := svc.Exchange(context.Background(), "stale")
	var exchangeErr *services.TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.Status)
	assert.Equal(t, `{"error":"invalid_grant"}`, exchangeErr.Body)
}

func TestOAuthService_ExchangeRequiresCode(t *testing.T) {
	t.Parallel()
	svc := newOAuthService(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("token endpoint must not be called")
	})

	_, err := svc.Exchange(context.Background(), "")
	require.ErrorIs(t, err, services.ErrMissingOAuthCode)
}

func TestOAuthService_ExchangeMissingToken(t *testing.T) {
	t.Parallel()
	svc := newOAuthService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := svc.Exchange(context.Background(), "code")
	require.Error(t, err)
}
