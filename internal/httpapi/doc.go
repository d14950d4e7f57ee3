// Package httpapi mounts the credential exchange engine behind an HTTP
// router.
//
// Three routes: POST /create-credentials, POST /exchange-credentials, and a
// guarded GET /check-authentication. Handlers translate request bodies into
// engine calls and engine errors into status codes; no authentication logic
// lives here.
package httpapi
