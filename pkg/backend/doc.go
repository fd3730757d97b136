// Package backend is the HTTP client for the remote notification service the
// local ledger reconciles with.
//
//	GET   {base}/notifications?include_read=true|false  -> []Record
//	PATCH {base}/notifications/{id}/read                {"is_read": bool}
//	POST  {base}/notifications                          Record
//
// Any non-2xx response yields a *StatusError carrying the status code; it
// matches ErrUnexpectedStatus under errors.Is.
package backend
