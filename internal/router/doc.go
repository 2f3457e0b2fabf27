// Package router resolves client-side paths and decides, before every navigation, whether
// the current session may enter them.
//
// [Guard] is the pure decision: protected routes send anonymous users to [LoginPath], and
// the login and registration pages send authenticated users to [DashboardPath]. A [Navigator]
// runs its hooks (the guard first) on each [Navigator.Navigate], following redirects until
// a route proceeds.
package router
