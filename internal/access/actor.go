// Package access decides what an actor may see and do. Every decision takes
// the actor explicitly; nothing here reads request state.
package access

import "silant-backend/internal/model"

// Actor is the identity a request runs as.
type Actor struct {
	UserID      int64
	Username    string
	DisplayName string
	Role        model.Role

	authenticated bool
}

// Anonymous is the actor of a request that carried no credentials.
func Anonymous() Actor {
	return Actor{}
}

// ActorFor builds the actor for an authenticated user.
func ActorFor(u *model.User) Actor {
	return Actor{
		UserID:        u.ID,
		Username:      u.Username,
		DisplayName:   u.DisplayName(),
		Role:          u.Role,
		authenticated: true,
	}
}

// Authenticated reports whether the actor signed in.
func (a Actor) Authenticated() bool {
	return a.authenticated
}
