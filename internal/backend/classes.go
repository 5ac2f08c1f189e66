package backend

import (
	"context"
	"fmt"
	"net/http"

	"dashboard/internal/models"
)

func (c *Client) ListDocumentClasses(ctx context.Context, token string) ([]models.DocumentClass, error) {
	return list[models.DocumentClass](ctx, c, token, pathDocumentClasses, nil)
}

func (c *Client) ListClassFields(ctx context.Context, token string, classID int64) ([]models.DocumentClassField, error) {
	return list[models.DocumentClassField](ctx, c, token, fmt.Sprintf(pathClassFields, classID), nil)
}

func (c *Client) CreateClassField(ctx context.Context, token string, classID int64, body models.FieldCreateBody) (models.DocumentClassField, error) {
	return send[models.DocumentClassField](ctx, c, token, http.MethodPost, fmt.Sprintf(pathClassFields, classID), body)
}

func (c *Client) UpdateClassField(ctx context.Context, token string, classID, fieldID int64, body models.FieldUpdateBody) (models.DocumentClassField, error) {
	return send[models.DocumentClassField](ctx, c, token, http.MethodPatch, fmt.Sprintf(pathClassField, classID, fieldID), body)
}

func (c *Client) DeleteClassField(ctx context.Context, token string, classID, fieldID int64) error {
	return sendNoContent(ctx, c, token, http.MethodDelete, fmt.Sprintf(pathClassField, classID, fieldID), nil)
}

func (c *Client) ReorderClassFields(ctx context.Context, token string, classID int64, body models.FieldReorderBody) ([]models.DocumentClassField, error) {
	resp, err := c.execute(
		c.request(ctx, token).SetHeader("Content-Type", "application/json").SetBody(body),
		http.MethodPost,
		fmt.Sprintf(pathClassReorder, classID),
	)
	if err != nil {
		return nil, err
	}
	return decodeList[models.DocumentClassField](resp)
}

func (c *Client) CreateEnumOption(ctx context.Context, token string, fieldID int64, body models.EnumOptionBody) (models.EnumOption, error) {
	return send[models.EnumOption](ctx, c, token, http.MethodPost, fmt.Sprintf(pathFieldOptions, fieldID), body)
}

func (c *Client) UpdateEnumOption(ctx context.Context, token string, fieldID, optionID int64, body models.EnumOptionBody) (models.EnumOption, error) {
	return send[models.EnumOption](ctx, c, token, http.MethodPatch, fmt.Sprintf(pathFieldOption, fieldID, optionID), body)
}

func (c *Client) DeleteEnumOption(ctx context.Context, token string, fieldID, optionID int64) error {
	return sendNoContent(ctx, c, token, http.MethodDelete, fmt.Sprintf(pathFieldOption, fieldID, optionID), nil)
}
