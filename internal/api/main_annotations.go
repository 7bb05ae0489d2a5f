// Package api implements the JSON REST API: registration and login, the
// caller's profile, public profiles, and link management.

// @title           linkpage API
// @version         1.0
// @description     Personal link page backend. Register, log in, and manage the links shown on your public page.
// @BasePath        /
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the token returned by /auth/login.
package api
