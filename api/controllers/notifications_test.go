package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoralesv/turnia-backend/internal/poller"
	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

func TestNotificationsListReturnsActiveEntries(t *testing.T) {
	feed := poller.NewFeed()
	feed.Publish(poller.Notification{
		OrderCode: "PED004",
		StaffName: "Laura Prieto",
		Status:    enums.AssignmentStatusConfirmed,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	resp := httptest.NewRecorder()

	NotificationsList(feed, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var envelope struct {
		Data []poller.Notification `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("returned %d notifications, want 1", len(envelope.Data))
	}
	if envelope.Data[0].OrderCode != "PED004" {
		t.Fatalf("order code = %q", envelope.Data[0].OrderCode)
	}
}

func TestNotificationsListEmptyFeed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	resp := httptest.NewRecorder()

	NotificationsList(poller.NewFeed(), testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
}
