package models

import "time"

type File struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
}

// FieldValue is the value of one dynamic document-class field on a document.
type FieldValue struct {
	FieldID int64  `json:"field_id"`
	Nome    string `json:"nome"`
	Value   any    `json:"value"`
}

type Document struct {
	ID     int64        `json:"id"`
	Files  []File       `json:"files"`
	Values []FieldValue `json:"values"`
}

type SharerRef struct {
	ID         int64  `json:"id"`
	Nominativo string `json:"nominativo"`
}

type DocumentClassRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ViewerRef struct {
	ID            int64   `json:"id"`
	Nominativo    string  `json:"nominativo"`
	Email         string  `json:"email"`
	CodiceFiscale *string `json:"codice_fiscale,omitempty"`
	PartitaIVA    *string `json:"partita_iva,omitempty"`
}

// SharedBatch is a bundle of documents sent by a sharer to one or more viewers.
type SharedBatch struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	SentAt        time.Time        `json:"sent_at"`
	Sharer        SharerRef        `json:"sharer"`
	DocumentClass DocumentClassRef `json:"document_class"`
	Documents     []Document       `json:"documents"`
	Viewers       []ViewerRef      `json:"viewers"`
}

// FileCount is the number of files across all documents of the batch.
func (b SharedBatch) FileCount() int {
	count := 0
	for _, doc := range b.Documents {
		count += len(doc.Files)
	}
	return count
}

type BatchListItem struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	SentAt        time.Time        `json:"sent_at"`
	Sharer        SharerRef        `json:"sharer"`
	DocumentClass DocumentClassRef `json:"document_class"`
	Viewers       []ViewerRef      `json:"viewers"`
	DocumentCount int              `json:"document_count"`
	FileCount     int              `json:"file_count"`

	// Values holds every document field value so list filters can search them.
	Values []any `json:"-"`
}

func (b SharedBatch) ToListItem() BatchListItem {
	values := make([]any, 0)
	for _, doc := range b.Documents {
		for _, v := range doc.Values {
			values = append(values, v.Value)
		}
	}

	return BatchListItem{
		ID:            b.ID,
		Title:         b.Title,
		SentAt:        b.SentAt,
		Sharer:        b.Sharer,
		DocumentClass: b.DocumentClass,
		Viewers:       b.Viewers,
		DocumentCount: len(b.Documents),
		FileCount:     b.FileCount(),
		Values:        values,
	}
}

// DocumentRow flattens one document of a shared batch for the viewer table.
type DocumentRow struct {
	BatchID       int64            `json:"batch_id"`
	BatchTitle    string           `json:"batch_title"`
	SentAt        time.Time        `json:"sent_at"`
	Sharer        SharerRef        `json:"sharer"`
	DocumentClass DocumentClassRef `json:"document_class"`
	DocumentID    int64            `json:"document_id"`
	Files         []File           `json:"files"`
	Values        map[string]any   `json:"values"`
}

type BatchQueryParams struct {
	Sort     string   `json:"sort"      validate:"omitempty,max=64"`
	Query    string   `json:"q"         validate:"omitempty,max=200"`
	Title    string   `json:"title"     validate:"omitempty,max=200"`
	From     string   `json:"from"      validate:"omitempty,datetime=2006-01-02"`
	To       string   `json:"to"        validate:"omitempty,datetime=2006-01-02"`
	Viewers  []int64  `json:"viewers"   validate:"omitempty,dive,gte=1"`
	Page     int      `json:"page"      validate:"omitempty,gte=0"`
	PageSize int      `json:"page_size" validate:"omitempty,gte=1,lte=500"`
}

type FileQueryParams struct {
	Sort string `json:"sort" validate:"omitempty,max=64"`
}

// DocumentQueryParams drives the viewer documents table. Fields holds the
// dynamic per-field filters, keyed by field nome.
type DocumentQueryParams struct {
	Sort     string              `json:"sort"      validate:"omitempty,max=128"`
	Query    string              `json:"q"         validate:"omitempty,max=200"`
	Class    int64               `json:"class"     validate:"omitempty,gte=1"`
	From     string              `json:"from"      validate:"omitempty,datetime=2006-01-02"`
	To       string              `json:"to"        validate:"omitempty,datetime=2006-01-02"`
	Fields   map[string][]string `json:"fields"`
	Page     int                 `json:"page"      validate:"omitempty,gte=0"`
	PageSize int                 `json:"page_size" validate:"omitempty,gte=1,lte=500"`
}

type FileViewURL struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DocumentTable is one page of the viewer documents table together with the
// dynamic columns that apply to it.
type DocumentTable struct {
	Fields []DocumentClassField `json:"fields"`
	Page[DocumentRow]
}
