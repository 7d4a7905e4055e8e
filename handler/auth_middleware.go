package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"contract-registry-api/common"
	"contract-registry-api/model"
	"contract-registry-api/service"
)

type contextKey string

// ClaimsKey holds the verified *model.AppClaims for the current request.
// It is only ever set by AuthorizationGate after a successful verification,
// so a handler that finds it populated may trust it without re-checking.
const ClaimsKey contextKey = "claims"

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

type accessPolicy int

const (
	policyPublic accessPolicy = iota
	policyAuthenticated
	policyAdmin
)

// routeRule maps a path prefix to the access policy of its read and write
// methods. isAPI selects the denial style: JSON status codes for API paths,
// login/unauthorized redirects for page paths.
type routeRule struct {
	prefix string
	isAPI  bool
	read   accessPolicy
	write  accessPolicy
}

// routeRules is evaluated top to bottom; the first prefix match wins, so
// more specific prefixes must precede broader ones. Paths matching no rule
// are public.
var routeRules = []routeRule{
	{prefix: "/api/admin", isAPI: true, read: policyAdmin, write: policyAdmin},
	{prefix: "/api/contracts", isAPI: true, read: policyAuthenticated, write: policyAdmin},
	{prefix: "/api/profile", isAPI: true, read: policyAuthenticated, write: policyAuthenticated},
	{prefix: "/api/logout", isAPI: true, read: policyAuthenticated, write: policyAuthenticated},
	{prefix: "/uploads", isAPI: false, read: policyAuthenticated, write: policyAuthenticated},
	{prefix: "/admin", isAPI: false, read: policyAdmin, write: policyAdmin},
	{prefix: "/contract", isAPI: false, read: policyAuthenticated, write: policyAuthenticated},
	{prefix: "/profile", isAPI: false, read: policyAuthenticated, write: policyAuthenticated},
}

func matchRule(path string) (routeRule, bool) {
	for _, rule := range routeRules {
		if strings.HasPrefix(path, rule.prefix) {
			return rule, true
		}
	}
	return routeRule{}, false
}

// TokenFromRequest extracts the bearer token, preferring the session cookie
// over the Authorization header when both are present. The cookie-first
// order matches the sessions already issued and must not change.
func TokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	headerParts := strings.SplitN(authHeader, " ", 2)
	if len(headerParts) == 2 && strings.EqualFold(headerParts[0], "bearer") && headerParts[1] != "" {
		return headerParts[1], true
	}

	return "", false
}

// AuthorizationGate intercepts every request before it reaches a handler.
// It classifies the path against the route policy table, verifies the
// caller's token where required, and injects the verified identity for
// downstream handlers. Any verification failure is a deny; the gate never
// lets a partially verified request through.
func AuthorizationGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Convenience redirect only; the real protection is the rules below.
		if path == "/" {
			redirectRoot(w, r)
			return
		}

		rule, ok := matchRule(path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		policy := rule.read
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
		default:
			policy = rule.write
		}

		if policy == policyPublic {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := TokenFromRequest(r)
		if !ok {
			denyUnauthenticated(w, r, rule.isAPI, "Authentication token not found")
			return
		}

		claims, err := service.VerifyToken(tokenString)
		if err != nil {
			denyUnauthenticated(w, r, rule.isAPI, "Invalid or expired token")
			return
		}

		if policy == policyAdmin && !claims.Role.IsAdmin() {
			denyForbidden(w, r, rule.isAPI)
			return
		}

		injectIdentity(r, claims)
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// redirectRoot sends callers with a verified session to the contract list
// and everyone else to the login page.
func redirectRoot(w http.ResponseWriter, r *http.Request) {
	if tokenString, ok := TokenFromRequest(r); ok {
		if _, err := service.VerifyToken(tokenString); err == nil {
			http.Redirect(w, r, "/contract", http.StatusFound)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// denyUnauthenticated handles a missing or unverifiable token: 401 for API
// paths, login redirect for pages. The client recovers by logging in again.
func denyUnauthenticated(w http.ResponseWriter, r *http.Request, isAPI bool, message string) {
	if isAPI {
		common.NewAppError(http.StatusUnauthorized, message, nil).Send(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// denyForbidden handles a verified caller whose role is insufficient: 403
// for API paths, unauthorized page for pages. Re-authenticating would not
// help, so this must never fold into the unauthenticated outcome.
func denyForbidden(w http.ResponseWriter, r *http.Request, isAPI bool) {
	if isAPI {
		common.NewAppError(http.StatusForbidden, "You do not have permission to access this resource", nil).Send(w)
		return
	}
	http.Redirect(w, r, "/unauthorized", http.StatusFound)
}

// injectIdentity exposes the verified claim fields to downstream handlers
// under the x-user header convention.
func injectIdentity(r *http.Request, claims *model.AppClaims) {
	r.Header.Set("X-User-Id", strconv.Itoa(claims.UserID))
	r.Header.Set("X-User-Role", string(claims.Role))
	r.Header.Set("X-Username", claims.Username)
	r.Header.Set("X-Fullname", claims.FullName)
	if claims.DivisionID != nil {
		r.Header.Set("X-User-Division", strconv.Itoa(*claims.DivisionID))
	} else {
		r.Header.Del("X-User-Division")
	}
}

// CallerClaims returns the identity the gate attached to the request.
// The second return is false when the route was not a protected one.
func CallerClaims(r *http.Request) (*model.AppClaims, bool) {
	claims, ok := r.Context().Value(ClaimsKey).(*model.AppClaims)
	return claims, ok
}
