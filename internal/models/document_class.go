package models

import "fmt"

// FieldType is the declared type of a dynamic document-class field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeEnum     FieldType = "enum"
)

// FieldStrategy selects how values of a field are filtered and sorted.
type FieldStrategy int

const (
	StrategyText FieldStrategy = iota
	StrategyNumber
	StrategyDate
	StrategyBoolean
	StrategyEnum
)

func (s FieldStrategy) String() string {
	switch s {
	case StrategyText:
		return "text"
	case StrategyNumber:
		return "number"
	case StrategyDate:
		return "date"
	case StrategyBoolean:
		return "boolean"
	case StrategyEnum:
		return "enum"
	}
	return fmt.Sprintf("FieldStrategy(%d)", int(s))
}

// Strategy maps every field type to its filter/sort strategy. Types the
// dashboard does not know about are treated as free text.
func (t FieldType) Strategy() FieldStrategy {
	switch t {
	case FieldTypeText, FieldTypeTextarea:
		return StrategyText
	case FieldTypeNumber:
		return StrategyNumber
	case FieldTypeDate:
		return StrategyDate
	case FieldTypeBoolean:
		return StrategyBoolean
	case FieldTypeEnum:
		return StrategyEnum
	default:
		return StrategyText
	}
}

type EnumOption struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	SortOrder int    `json:"sort_order"`
}

type DocumentClass struct {
	ID     int64                `json:"id"`
	Name   string               `json:"name"`
	Fields []DocumentClassField `json:"fields"`
}

// DocumentClassField defines one column of a document class schema.
type DocumentClassField struct {
	ID           int64        `json:"id"`
	Label        string       `json:"label"`
	Nome         string       `json:"nome"`
	Tipo         FieldType    `json:"tipo"`
	Obbligatorio bool         `json:"obbligatorio"`
	IsPrimaryKey bool         `json:"is_primary_key"`
	SortOrder    int          `json:"sort_order"`
	Options      []EnumOption `json:"options,omitempty"`
}

type FieldCreateBody struct {
	Label        string    `json:"label"          validate:"required,max=255"`
	Nome         string    `json:"nome"           validate:"required,max=100,excludesall= ./"`
	Tipo         FieldType `json:"tipo"           validate:"required,oneof=text textarea number date boolean enum"`
	Obbligatorio bool      `json:"obbligatorio"`
	IsPrimaryKey bool      `json:"is_primary_key"`
	SortOrder    int       `json:"sort_order"     validate:"gte=0"`
}

type FieldUpdateBody struct {
	Label        *string    `json:"label,omitempty"          validate:"omitempty,max=255"`
	Tipo         *FieldType `json:"tipo,omitempty"           validate:"omitempty,oneof=text textarea number date boolean enum"`
	Obbligatorio *bool      `json:"obbligatorio,omitempty"`
	IsPrimaryKey *bool      `json:"is_primary_key,omitempty"`
	SortOrder    *int       `json:"sort_order,omitempty"     validate:"omitempty,gte=0"`
}

// FieldReorderBody lists field ids in their new display order.
type FieldReorderBody struct {
	FieldIDs []int64 `json:"field_ids" validate:"required,min=1,dive,gte=1"`
}

type EnumOptionBody struct {
	Label     string `json:"label"      validate:"required,max=255"`
	Value     string `json:"value"      validate:"required,max=255"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}
