package models

// Sides of a double-entry line
const (
	SideDebit  = "debit"
	SideCredit = "credit"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
