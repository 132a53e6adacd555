package controllers

import (
	"net/http"

	"github.com/jmoralesv/turnia-backend/api/responses"
	"github.com/jmoralesv/turnia-backend/internal/poller"
	"github.com/jmoralesv/turnia-backend/pkg/logger"
)

// NotificationsList returns the status-change notifications that have not
// yet expired. The dashboard polls this alongside the order list.
func NotificationsList(feed *poller.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, feed.Active())
	}
}
