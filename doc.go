// Package finmind provides the client-side core for the FinMind dashboard:
// a persistent bearer-token store, an auth session controller, a process
// wide notification queue with a toast presenter, and the supporting types
// shared by the API client, the route gates, and the web layer.
package finmind
