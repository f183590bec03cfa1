// Package auth provides authentication for the Benotes API.
//
// # Identity
//
// Every authenticated request carries an Identity with the user's ID and
// name. The name is used directly as the tenant ID: there is no separate
// tenant-selection step, so each user works in exactly one tenant.
//
// # Tokens
//
// Users log in with email and password and receive a JWT:
//
//	issuer := auth.NewJWTIssuer([]byte(cfg.Auth.JWTSecret))
//	token, err := issuer.Generate(auth.Identity{UserID: u.ID, Name: u.Name}, ttl)
//
// Tokens are signed with HS256. The "sub" claim holds the user name and
// "uid" the user ID.
//
// # HTTP Middleware
//
//	r.Use(auth.Middleware(issuer))
//
// The middleware rejects requests without a valid bearer token and stores
// the Identity in the request context (see FromContext). RequireAdmin limits
// operator routes to a configured list of user names.
//
// # Passwords
//
// HashPassword and CheckPassword wrap bcrypt.
package auth
