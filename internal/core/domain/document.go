package domain

import "time"

// Document is an investment report available in the download portal.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileURL     string    `json:"file_url"`
	Category    string    `json:"category,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DownloadRecord links an investor to a document they fetched.
type DownloadRecord struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	UserEmail  string    `json:"user_email"`
	CreatedAt  time.Time `json:"created_at"`
}

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// InvestmentProfile captures a lead's answers from the investment selector.
type InvestmentProfile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	RiskAppetite string    `json:"risk_appetite,omitempty"`
	BudgetRange  string    `json:"budget_range,omitempty"`
	Horizon      string    `json:"horizon,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DashboardStats aggregates counts for the admin overview page.
type DashboardStats struct {
	Users              int64 `json:"users"`
	Documents          int64 `json:"documents"`
	Downloads          int64 `json:"downloads"`
	ContactMessages    int64 `json:"contact_messages"`
	InvestmentProfiles int64 `json:"investment_profiles"`
}
