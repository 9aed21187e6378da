// Package session keeps the identity of the current user and mirrors it to a
// durable backend under a single key.
//
// A Store is the explicit application-state object handed to every screen.
// SetUser updates the in-memory copy and the backend together, then notifies
// subscribers so front ends can react (for example by redirecting between the
// login and form screens).
//
//	store := session.New(session.NewFileBackend(dir))
//	if err := store.Load(ctx); err != nil { ... }
//	cancel := store.Subscribe(func(id model.UserIdentity) { ... })
//	defer cancel()
//	_ = store.SetUser(ctx, "21CS001", "Ada")
package session
