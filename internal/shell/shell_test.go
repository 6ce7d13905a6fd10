package shell

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aulavid/aulavid/internal/auth"
	"github.com/aulavid/aulavid/internal/httputil"
	"github.com/aulavid/aulavid/internal/session"
)

func newService(authenticated bool) (*auth.Service, *session.MemoryStore) {
	store := session.NewMemoryStore()
	if authenticated {
		store.Set(session.KeyAuth, session.FlagTrue)
		store.Set(session.KeyAccess, "access-token")
		store.Set(session.KeyRefresh, "refresh-token")
	}
	svc := auth.New(store)
	svc.Init()
	return svc, store
}

func requestFor(svc *auth.Service, method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	ctx := auth.WithService(req.Context(), svc)
	ctx = httputil.ContextWithNonce(ctx, "test-nonce")
	return req.WithContext(ctx)
}

func TestNewNav_ReflectsState(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		status        string
	}{
		{"authenticated", true, StatusAuthenticated},
		{"anonymous", false, StatusAnonymous},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(tc.authenticated)
			nav := NewNav(svc, "videos")
			defer nav.Close()

			if nav.ShowLogout != tc.authenticated {
				t.Errorf("expected ShowLogout=%v, got %v", tc.authenticated, nav.ShowLogout)
			}
			if nav.Status != tc.status {
				t.Errorf("expected status %q, got %q", tc.status, nav.Status)
			}
			if nav.Active != "videos" {
				t.Errorf("expected active videos, got %q", nav.Active)
			}
		})
	}
}

func TestNav_LogoutHidesControlSynchronously(t *testing.T) {
	svc, _ := newService(true)
	nav := NewNav(svc, "dashboard")
	defer nav.Close()

	svc.Logout()

	if nav.ShowLogout {
		t.Error("expected logout control to disappear immediately")
	}
	if nav.Status != StatusAnonymous {
		t.Errorf("expected status %q, got %q", StatusAnonymous, nav.Status)
	}
}

func TestNav_CloseStopsFollowing(t *testing.T) {
	svc, _ := newService(false)
	nav := NewNav(svc, "")
	nav.Close()
	nav.Close()

	svc.Login()

	if nav.ShowLogout {
		t.Error("expected closed nav to ignore later logins")
	}
}

var testView = NewView(`{{define "content"}}<h1 id="page">{{.}}</h1>{{end}}`)

func TestView_RendersAuthenticatedChrome(t *testing.T) {
	svc, _ := newService(true)
	rec := httptest.NewRecorder()

	testView.Render(rec, requestFor(svc, http.MethodGet, "/videos"), Page{Title: "Videos", Active: "videos", Data: "My videos"})

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	for _, want := range []string{
		`id="logout"`,
		StatusAuthenticated,
		`<h1 id="page">My videos</h1>`,
		`nonce="test-nonce"`,
		`<a href="/videos" class="active">`,
		`<title>Videos · AulaVid</title>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	if strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("expected no refresh meta tag")
	}
}

func TestView_RendersAnonymousChrome(t *testing.T) {
	svc, _ := newService(false)
	rec := httptest.NewRecorder()

	testView.Render(rec, requestFor(svc, http.MethodGet, "/login"), Page{Title: "Log in", Status: http.StatusUnauthorized, Refresh: true, Data: "x"})

	body := rec.Body.String()
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if strings.Contains(body, `id="logout"`) {
		t.Error("expected no logout control for anonymous session")
	}
	if strings.Contains(body, `class="sidebar"`) {
		t.Error("expected no sidebar for anonymous session")
	}
	if !strings.Contains(body, StatusAnonymous) {
		t.Errorf("expected status string %q", StatusAnonymous)
	}
	if !strings.Contains(body, `http-equiv="refresh"`) {
		t.Error("expected refresh meta tag")
	}
}

func TestView_PanicsOutsideProvider(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic outside provider")
		}
	}()
	testView.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), Page{})
}

type fakeRevoker struct {
	called chan [2]string
	err    error
}

func (f *fakeRevoker) Logout(ctx context.Context, access, refresh string) error {
	f.called <- [2]string{access, refresh}
	return f.err
}

func TestLogoutHandler_LogsOutAndRedirects(t *testing.T) {
	svc, store := newService(true)
	revoker := &fakeRevoker{called: make(chan [2]string, 1)}
	rec := httptest.NewRecorder()

	LogoutHandler(revoker, "/login").ServeHTTP(rec, requestFor(svc, http.MethodPost, "/logout"))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %q", rec.Header().Get("Location"))
	}
	if svc.IsAuthenticated() {
		t.Error("expected service to be logged out")
	}
	if flag, _ := store.Get(session.KeyAuth); flag != session.FlagFalse {
		t.Errorf("expected persisted flag %q, got %q", session.FlagFalse, flag)
	}

	select {
	case got := <-revoker.called:
		if got != [2]string{"access-token", "refresh-token"} {
			t.Errorf("expected revoke with stored tokens, got %v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("expected refresh token to be revoked")
	}
}

func TestLogoutHandler_RevokeFailureStillRedirects(t *testing.T) {
	svc, _ := newService(true)
	revoker := &fakeRevoker{called: make(chan [2]string, 1), err: errors.New("api down")}
	rec := httptest.NewRecorder()

	LogoutHandler(revoker, "/login").ServeHTTP(rec, requestFor(svc, http.MethodPost, "/logout"))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	<-revoker.called
}

func TestLogoutHandler_SkipsRevokeWithoutRefreshToken(t *testing.T) {
	svc, _ := newService(false)
	revoker := &fakeRevoker{called: make(chan [2]string, 1)}
	rec := httptest.NewRecorder()

	LogoutHandler(revoker, "/login").ServeHTTP(rec, requestFor(svc, http.MethodPost, "/logout"))

	select {
	case <-revoker.called:
		t.Error("expected no revoke without a refresh token")
	case <-time.After(50 * time.Millisecond):
	}
	if rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %q", rec.Header().Get("Location"))
	}
}
