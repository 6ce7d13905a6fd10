// Package shell renders the persistent chrome around every page: header,
// sidebar and the logout control.
package shell

import "github.com/aulavid/aulavid/internal/auth"

const (
	StatusAuthenticated = "session: authenticated"
	StatusAnonymous     = "session: anonymous"
)

// Nav is the header view model. It follows the auth service, so a Login or
// Logout during the request is reflected before the page renders.
type Nav struct {
	Authenticated bool
	ShowLogout    bool
	Status        string
	User          string
	Active        string

	unsubscribe func()
}

func NewNav(svc *auth.Service, active string) *Nav {
	n := &Nav{Active: active}
	n.apply(svc.IsAuthenticated())
	if id, ok := svc.Identity(); ok {
		n.User = id.DisplayName()
	}
	n.unsubscribe = svc.Subscribe(func(authenticated bool) {
		n.apply(authenticated)
		if !authenticated {
			n.User = ""
		}
	})
	return n
}

func (n *Nav) apply(authenticated bool) {
	n.Authenticated = authenticated
	n.ShowLogout = authenticated
	if authenticated {
		n.Status = StatusAuthenticated
	} else {
		n.Status = StatusAnonymous
	}
}

// Close stops following the auth service.
func (n *Nav) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
}
