package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{"scan"} {
		ScannerOperationsTotal.WithLabelValues(op, "success")
		ScannerOperationsTotal.WithLabelValues(op, "error")
		ScannerOperationDuration.WithLabelValues(op)
	}

	for _, event := range []string{"create", "write", "remove", "rename", "chmod"} {
		ScannerWatcherEventsTotal.WithLabelValues(event)
	}

	for _, status := range []string{"success", "error_decode"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}
	for _, phase := range []string{"decode", "compose", "encode"} {
		ThumbnailGenerationDuration.WithLabelValues(phase)
	}
	for _, reason := range []string{"modified", "watcher", "purge"} {
		ThumbnailCacheInvalidations.WithLabelValues(reason)
	}

	for _, action := range []string{"next", "previous", "settings", "refresh"} {
		for _, result := range []string{"moved", "ignored", "reset"} {
			NavigationTotal.WithLabelValues(action, result)
		}
		WebsocketMessagesTotal.WithLabelValues(action)
	}
	WebsocketMessagesTotal.WithLabelValues("render")
	WebsocketMessagesTotal.WithLabelValues("invalid")
	GalleryRendersTotal.WithLabelValues("page")
	GalleryRendersTotal.WithLabelValues("empty")

	OriginalsServedTotal.WithLabelValues("inline")
	OriginalsServedTotal.WithLabelValues("attachment")

	for _, op := range []string{"stat", "open", "readdir"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemTransientErrors.WithLabelValues(op)
		FilesystemRetryDuration.WithLabelValues(op)
	}
}
