package model

import "github.com/google/uuid"

// ListRequest filters the recipient's inbox.
type ListRequest struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Page       int
	Limit      int
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
	Total         int64          `json:"total"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
