package handler

import "github.com/cdainvest/portal-system/internal/core/domain"

type createDocumentRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	FileURL     string `json:"file_url"    validate:"required,url"`
	Category    string `json:"category"`
}

type documentListResponse struct {
	Documents []domain.Document `json:"documents"`
}

type downloadListResponse struct {
	Downloads []domain.DownloadRecord `json:"downloads"`
}

type contactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"omitempty,len=10,numeric"`
	Message string `json:"message" validate:"required"`
}

type profileRequest struct {
	Name         string `json:"name"          validate:"required"`
	Email        string `json:"email"         validate:"required,email"`
	Phone        string `json:"phone"         validate:"omitempty,len=10,numeric"`
	RiskAppetite string `json:"risk_appetite" validate:"omitempty,oneof=conservative balanced aggressive"`
	BudgetRange  string `json:"budget_range"`
	Horizon      string `json:"horizon"`
}
