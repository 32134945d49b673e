/*
Package filesystem provides resilient filesystem operations with automatic retry logic
for transient errors.

# Purpose

The gallery's image directory is often a network mount. Listing it or opening an
original for download can fail with ESTALE (stale file handle), EIO or EAGAIN while
the mount recovers. This package wraps os.Stat, os.Open and os.ReadDir with a short,
bounded exponential backoff for exactly those errors.

# Usage

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
	    return nil, err
	}

Errors that are not transient (not-exist, permission) are returned on the first
attempt. Image decoding is not retried: a decode failure is reported per entry.

# Metrics

Retry attempts, successes, failures, transient errors and total duration are
recorded per operation ("stat", "open", "readdir").
*/
package filesystem
