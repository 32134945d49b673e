// Package logging wraps logrus with the printf-style helpers used across the
// gallery: Debug, Info, Warn, Error and Fatal, plus Access for W3C request
// lines written by the HTTP middleware.
//
// LOG_LEVEL picks the threshold and DEBUG=true forces debug. LOG_FORMAT=json
// switches the formatter. SetOutput redirects everything, which galleryctl
// uses to keep the terminal browser's screen clean.
package logging
