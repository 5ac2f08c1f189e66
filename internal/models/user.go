package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSharer Role = "sharer"
	RoleViewer Role = "viewer"
)

// Sharer is an account that uploads and shares documents.
type Sharer struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Nominativo string    `json:"nominativo"`
	Email      string    `json:"email"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Viewer is a client receiving shared documents, identified by tax code and/or VAT number.
type Viewer struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Nominativo    string    `json:"nominativo"`
	Email         string    `json:"email"`
	CodiceFiscale *string   `json:"codice_fiscale,omitempty"`
	PartitaIVA    *string   `json:"partita_iva,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SharerCreateBody struct {
	Username   string `json:"username"   validate:"required,max=150"`
	Nominativo string `json:"nominativo" validate:"required,max=255"`
	Email      string `json:"email"      validate:"required,email,max=254"`
}

type SharerUpdateBody struct {
	Username   *string `json:"username,omitempty"   validate:"omitempty,max=150"`
	Nominativo *string `json:"nominativo,omitempty" validate:"omitempty,max=255"`
	Email      *string `json:"email,omitempty"      validate:"omitempty,email,max=254"`
}

// ViewerCreateBody requires at least one of the two tax identifiers.
type ViewerCreateBody struct {
	Username      string `json:"username"                 validate:"required,max=150"`
	Nominativo    string `json:"nominativo"               validate:"required,max=255"`
	Email         string `json:"email"                    validate:"required,email,max=254"`
	CodiceFiscale string `json:"codice_fiscale,omitempty" validate:"required_without=PartitaIVA,omitempty,len=16,alphanum"`
	PartitaIVA    string `json:"partita_iva,omitempty"    validate:"required_without=CodiceFiscale,omitempty,len=11,numeric"`
}

type ViewerUpdateBody struct {
	Username      *string `json:"username,omitempty"       validate:"omitempty,max=150"`
	Nominativo    *string `json:"nominativo,omitempty"     validate:"omitempty,max=255"`
	Email         *string `json:"email,omitempty"          validate:"omitempty,email,max=254"`
	CodiceFiscale *string `json:"codice_fiscale,omitempty" validate:"omitempty,len=16,alphanum"`
	PartitaIVA    *string `json:"partita_iva,omitempty"    validate:"omitempty,len=11,numeric"`
}

// UserQueryParams filters and pages the sharer and viewer tables.
type UserQueryParams struct {
	Sort     string   `json:"sort"      validate:"omitempty,max=64"`
	Query    string   `json:"q"         validate:"omitempty,max=200"`
	Active   []string `json:"active"    validate:"omitempty,dive,oneof=true false null"`
	Page     int      `json:"page"      validate:"omitempty,gte=0"`
	PageSize int      `json:"page_size" validate:"omitempty,gte=1,lte=500"`
}

// ExtractedUserData is what the backend OCR returns for an uploaded identity document.
type ExtractedUserData struct {
	FileName      string  `json:"file_name"`
	Nominativo    string  `json:"nominativo"`
	Email         string  `json:"email"`
	CodiceFiscale *string `json:"codice_fiscale,omitempty"`
	PartitaIVA    *string `json:"partita_iva,omitempty"`
}

type UploadedFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}
