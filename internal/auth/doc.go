// Package auth implements token-based authentication for the API.
//
// Users authenticate with email/password and receive a JWT access/refresh
// token pair. Access tokens are short-lived and validated statelessly;
// refresh tokens are additionally tracked by hash in the database so that
// rotation revokes the old token and compromised tokens can be invalidated.
package auth
