// Package api is the JSON control surface of the daemon.
//
//	GET    /healthz
//	GET    /notifications[?category=&unread=true]
//	DELETE /notifications
//	GET    /notifications/unread-count
//	POST   /notifications/read-all
//	POST   /notifications/{id}/read
//	DELETE /notifications/{id}
//	POST   /sync
//	POST   /check
//	GET    /preferences
//	PUT    /preferences
//	GET    /push/vapid-public-key
//	POST   /push/subscriptions
//	DELETE /push/subscriptions
//
// /check, /preferences and /push are mounted only when the matching
// dependency is passed to New.
package api
