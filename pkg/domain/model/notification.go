package model

// Notification is a deployment summary sent to chat
type Notification struct {
	Title   string
	Success bool
	Fields  []NotificationField
}

// NotificationField is a single labelled value of a notification
type NotificationField struct {
	Name  string
	Value string
}
