package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"unigate-backend/lib/scrapers/unisis"
	"unigate-backend/services/menu"
	"unigate-backend/services/session"
	"unigate-backend/services/trips"
	"unigate-backend/services/vault"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) string {
	data, err := os.ReadFile("../../lib/scrapers/unisis/testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// stubPortal mimics the upstream portal: a login endpoint that accepts
// exactly one username/password pair and the menu and trips pages.
func stubPortal(t testing.TB) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(unisis.LoginPath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("UserName") != "12345" || r.PostForm.Get("Password") != "secret" {
			w.Write([]byte("<html>Kullanıcı adı veya şifre hatalı.</html>"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "abc"})
		w.Header().Set("Location", "/Anasayfa")
		w.WriteHeader(http.StatusSeeOther)
	})
	mux.HandleFunc(unisis.MenuPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(readFixture(t, "weekly_menu.html")))
	})
	mux.HandleFunc(unisis.TripsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(readFixture(t, "trips.html")))
	})
	mux.HandleFunc("/Gezi/Basvuru", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="alert">Başvurunuz alınmıştır.</div></body></html>`))
	})
	return mux
}

func setupAPI(t *testing.T) *httptest.Server {
	upstream := httptest.NewServer(stubPortal(t))
	t.Cleanup(upstream.Close)

	client, err := unisis.NewClient(unisis.ClientOptions{BaseURL: upstream.URL})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	store := vault.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	sessions := session.NewService(store, client, session.Options{
		SigningKey: []byte("test-signing-key"),
	})
	menus := menu.NewService(context.Background(), client, nil, menu.Options{})

	api := httptest.NewServer(NewRouter(RouterDeps{
		Sessions: sessions,
		Menus:    menus,
		Trips:    trips.NewService(sessions, client),
	}))
	t.Cleanup(api.Close)
	return api
}

func postJSON(t *testing.T, url string, body any, bearer string) (*http.Response, []byte) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return do(t, req)
}

func get(t *testing.T, url, bearer string) (*http.Response, []byte) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, body
}

func loginAPI(t *testing.T, api *httptest.Server) credentialsResponse {
	res, body := postJSON(t, api.URL+"/api/v1/auth/login",
		map[string]string{"username": "12345", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))

	var creds credentialsResponse
	require.NoError(t, json.Unmarshal(body, &creds))
	require.NotEmpty(t, creds.Bearer)
	require.NotEmpty(t, creds.RefreshHandle)
	require.Positive(t, creds.ExpiresIn)
	return creds
}

func TestHealthz(t *testing.T) {
	api := setupAPI(t)

	res, _ := get(t, api.URL+"/healthz", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestLoginRejectedCredentials(t *testing.T) {
	api := setupAPI(t)

	res, body := postJSON(t, api.URL+"/api/v1/auth/login",
		map[string]string{"username": "12345", "password": "wrong"}, "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeAuth, envelope.Error)
}

func TestLoginValidation(t *testing.T) {
	api := setupAPI(t)

	res, body := postJSON(t, api.URL+"/api/v1/auth/login",
		map[string]string{"username": "12345"}, "")
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeValidation, envelope.Error)
}

func TestVerifyAndLogoutFlow(t *testing.T) {
	api := setupAPI(t)
	creds := loginAPI(t, api)

	res, body := get(t, api.URL+"/api/v1/auth/verify", creds.Bearer)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var verify map[string]string
	require.NoError(t, json.Unmarshal(body, &verify))
	require.Equal(t, "12345", verify["userId"])

	res, _ = postJSON(t, api.URL+"/api/v1/auth/logout",
		map[string]string{"refreshHandle": creds.RefreshHandle}, creds.Bearer)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body = get(t, api.URL+"/api/v1/auth/verify", creds.Bearer)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeTokenGone, envelope.Error)
}

func TestRefreshToken(t *testing.T) {
	api := setupAPI(t)
	creds := loginAPI(t, api)

	res, body := postJSON(t, api.URL+"/api/v1/auth/refresh-token",
		map[string]string{
			"refreshHandle": creds.RefreshHandle,
			"username":      "12345",
			"password":      "secret",
		}, "")
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var next credentialsResponse
	require.NoError(t, json.Unmarshal(body, &next))
	require.NotEmpty(t, next.Bearer)
	require.NotEqual(t, creds.RefreshHandle, next.RefreshHandle)
}

func TestRefreshTokenUnknownHandle(t *testing.T) {
	api := setupAPI(t)

	res, body := postJSON(t, api.URL+"/api/v1/auth/refresh-token",
		map[string]string{
			"refreshHandle": "never-issued",
			"username":      "12345",
			"password":      "secret",
		}, "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeRefreshGone, envelope.Error)
}

func TestMenuEndpoints(t *testing.T) {
	api := setupAPI(t)

	res, body := get(t, api.URL+"/api/v1/menu", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var snapshot unisis.MenuSnapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	require.NotEmpty(t, snapshot.Staff[unisis.Monday].Lunch)
	require.NotEmpty(t, snapshot.Dormitory[unisis.Sunday].Dinner)

	res, body = get(t, api.URL+"/api/v1/menu/cafeteria/staff", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var schedule unisis.WeekSchedule
	require.NoError(t, json.Unmarshal(body, &schedule))
	require.Len(t, schedule, 7)

	res, body = get(t, api.URL+"/api/v1/menu/day/monday", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var day menu.DayMenu
	require.NoError(t, json.Unmarshal(body, &day))
	require.Equal(t, unisis.Monday, day.Day)

	res, _ = get(t, api.URL+"/api/v1/menu/today", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMenuValidation(t *testing.T) {
	api := setupAPI(t)

	res, body := get(t, api.URL+"/api/v1/menu/cafeteria/guests", "")
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeValidation, envelope.Error)

	res, _ = get(t, api.URL+"/api/v1/menu/day/someday", "")
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMenuUpstreamDown(t *testing.T) {
	// a portal that is no longer reachable maps onto 502
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstream.Close()

	client, err := unisis.NewClient(unisis.ClientOptions{BaseURL: upstream.URL})
	require.NoError(t, err)
	menus := menu.NewService(context.Background(), client, nil, menu.Options{})

	mr := miniredis.RunT(t)
	store := vault.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	sessions := session.NewService(store, client, session.Options{SigningKey: []byte("k")})

	api := httptest.NewServer(NewRouter(RouterDeps{
		Sessions: sessions,
		Menus:    menus,
		Trips:    trips.NewService(sessions, client),
	}))
	t.Cleanup(api.Close)

	res, body := get(t, api.URL+"/api/v1/menu", "")
	require.Equal(t, http.StatusBadGateway, res.StatusCode)
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeUpstream, envelope.Error)
}

func TestTripsRequireBearer(t *testing.T) {
	api := setupAPI(t)

	res, body := get(t, api.URL+"/api/v1/trips", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeTokenBad, envelope.Error)
}

func TestTripsFlow(t *testing.T) {
	api := setupAPI(t)
	creds := loginAPI(t, api)

	res, body := get(t, api.URL+"/api/v1/trips", creds.Bearer)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []unisis.Trip
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)

	res, body = postJSON(t, api.URL+"/api/v1/trips/17/apply", map[string]string{}, creds.Bearer)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var outcome tripOutcomeResponse
	require.NoError(t, json.Unmarshal(body, &outcome))
	require.Equal(t, "Başvurunuz alınmıştır.", outcome.Message)

	res, body = postJSON(t, api.URL+"/api/v1/trips/999/apply", map[string]string{}, creds.Bearer)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Equal(t, codeNotFound, envelope.Error)
}
